package report

import (
	"strconv"

	"github.com/featrix/modelcard/internal/card"
	"github.com/featrix/modelcard/internal/classify"
	"github.com/featrix/modelcard/internal/format"
)

// SessionIDLength is how many characters of the session id are displayed.
const SessionIDLength = 20

// Options control formatting choices of the builder.
type Options struct {
	// Precision is the number of fractional digits for plain numbers.
	Precision int

	// SampleValues is how many feature sample values are listed before
	// the remainder is summarized as "(+N more)".
	SampleValues int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Precision:    format.DefaultPrecision,
		SampleValues: 5,
	}
}

// Build assembles the section model of doc. It never fails: missing or
// mistyped fields display as format.NA.
func Build(doc *card.Document, opts Options) *Card {
	if opts.Precision < 0 {
		opts.Precision = format.DefaultPrecision
	}
	if opts.SampleValues <= 0 {
		opts.SampleValues = DefaultOptions().SampleValues
	}
	b := &builder{doc: doc, opts: opts}

	name := "Model Card"
	if s, ok := doc.Text("model_identification.name").Str(); ok && s != "" {
		name = s
	}
	c := &Card{
		Title: "MODEL CARD: " + name,
		Name:  name,
	}
	for _, id := range SectionOrder {
		c.Sections = append(c.Sections, b.section(id))
	}
	return c
}

type builder struct {
	doc  *card.Document
	opts Options
}

// fieldKind selects the formatter applied to a field.
type fieldKind int

const (
	plain fieldKind = iota
	number
	percent
	large
	upper
	duration
	jsonText
)

type spec struct {
	key    string
	label  string
	kind   fieldKind
	domain classify.Domain

	// optional fields are left out entirely when absent.
	optional bool
}

func (b *builder) display(v card.Value, k fieldKind) string {
	switch k {
	case number:
		return format.Number(v, b.opts.Precision)
	case percent:
		return format.Percentage(v)
	case large:
		return format.LargeInteger(v)
	case upper:
		return format.Upper(v)
	case duration:
		return format.Duration(v)
	case jsonText:
		return format.JSON(v)
	}
	if v.Kind() == card.Number {
		return format.Number(v, b.opts.Precision)
	}
	return format.Text(v)
}

func (b *builder) field(v card.Value, sp spec) Field {
	f := Field{
		Key:     sp.key,
		Label:   sp.label,
		Raw:     v,
		Display: b.display(v, sp.kind),
	}
	if sp.domain != "" {
		f.Domain = sp.domain
		f.Tier = classify.Classify(sp.domain, v)
	}
	return f
}

// fill appends one field per spec read from n.
func (b *builder) fill(s *Section, n card.Node, specs ...spec) {
	for _, sp := range specs {
		v := n.Lookup(sp.key)
		if sp.optional && v.Empty() {
			continue
		}
		s.Fields = append(s.Fields, b.field(v, sp))
	}
}

func newSection(parent *Section, key, title string, present bool) *Section {
	id := key
	if parent != nil {
		id = parent.ID + "." + key
	}
	return &Section{ID: id, Key: key, Title: title, Present: present}
}

// child builds an object subsection of parent and appends it when present.
func (b *builder) child(parent *Section, n card.Node, key, title string, specs ...spec) *Section {
	node := n.Child(key)
	s := newSection(parent, key, title, node.IsObject() && node.Present())
	if !s.Present {
		return s
	}
	b.fill(s, node, specs...)
	parent.Subsections = append(parent.Subsections, s)
	return s
}

func (b *builder) section(id SectionID) *Section {
	node := b.doc.Child(string(id))
	s := newSection(nil, string(id), id.Title(), node.Present())
	if !s.Present {
		return s
	}
	// feature_inventory is the only list-shaped section.
	wantList := id == SectionFeatures
	if wantList == node.IsObject() {
		s.Present = false
		return s
	}
	switch id {
	case SectionIdentification:
		b.identification(s, node)
	case SectionDataset:
		b.dataset(s, node)
	case SectionFeatures:
		b.features(s, node)
	case SectionConfiguration:
		b.configuration(s, node)
	case SectionMetrics:
		b.metrics(s, node)
	case SectionArchitecture:
		b.fill(s, node,
			spec{key: "predictor_layers", label: "Predictor Layers", optional: true},
			spec{key: "predictor_parameters", label: "Predictor Parameters", kind: large, optional: true},
			spec{key: "embedding_space_d_model", label: "Embedding Space d_model", optional: true},
		)
	case SectionQuality:
		b.quality(s, node)
	case SectionTechnical:
		b.fill(s, node,
			spec{key: "pytorch_version", label: "PyTorch Version"},
			spec{key: "device", label: "Device"},
			spec{key: "precision", label: "Precision"},
			spec{key: "loss_function", label: "Loss Function"},
			spec{key: "normalization", label: "Normalization", optional: true},
		)
	case SectionProvenance:
		b.fill(s, node,
			spec{key: "created_at", label: "Created At"},
			spec{key: "training_duration_minutes", label: "Training Duration", kind: duration, optional: true},
			spec{key: "version_info", label: "Version Info", kind: jsonText, optional: true},
		)
	case SectionColumnStats:
		b.columnStatistics(s, node)
	}
	return s
}

func (b *builder) identification(s *Section, n card.Node) {
	b.fill(s, n,
		spec{key: "session_id", label: "Session ID"},
		spec{key: "job_id", label: "Job ID"},
		spec{key: "name", label: "Name"},
	)

	modelType := n.Lookup("model_type")
	s.Fields = append(s.Fields, Field{
		Key:     "model_type",
		Label:   "Model Type",
		Raw:     modelType,
		Display: ModelTypeDisplay(modelType, n.Lookup("target_column_type")),
	})

	b.fill(s, n,
		spec{key: "status", label: "Status", domain: classify.Status},
		spec{key: "target_column", label: "Target Column"},
		spec{key: "target_column_type", label: "Target Type", kind: upper},
		spec{key: "compute_cluster", label: "Compute Cluster", kind: upper},
		spec{key: "training_date", label: "Training Date"},
		spec{key: "framework", label: "Framework"},
	)

	// The session id is shown truncated; an empty one is NA.
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Key != "session_id" || f.Raw.IsAbsent() {
			continue
		}
		if id, ok := f.Raw.Str(); ok && id == "" {
			f.Display = format.NA
			continue
		}
		f.Display = format.Prefix(f.Display, SessionIDLength)
	}
}

func (b *builder) dataset(s *Section, n card.Node) {
	b.fill(s, n,
		spec{key: "train_rows", label: "Training Rows", kind: large},
		spec{key: "val_rows", label: "Validation Rows", kind: large},
		spec{key: "total_rows", label: "Total Rows", kind: large},
		spec{key: "total_features", label: "Total Features"},
		spec{key: "target_column", label: "Target Column"},
	)

	names := n.List("feature_names").Items()
	sub := newSection(s, "feature_names", "Feature Names", len(names) > 0)
	if !sub.Present {
		return
	}
	for i, v := range names {
		idx := strconv.Itoa(i + 1)
		sub.Fields = append(sub.Fields, b.field(v, spec{key: idx, label: idx}))
	}
	s.Subsections = append(s.Subsections, sub)
}

// targetColumn is the column the model predicts, if any.
func (b *builder) targetColumn() string {
	if t, ok := b.doc.Text("model_identification.target_column").Str(); ok && t != "" {
		return t
	}
	t, _ := b.doc.Text("training_dataset.target_column").Str()
	return t
}

func (b *builder) features(s *Section, n card.Node) {
	target := b.targetColumn()
	for i, feat := range n.Elements("") {
		key := strconv.Itoa(i)
		title := "Feature " + strconv.Itoa(i+1)
		name, _ := feat.Text("name").Str()
		if name != "" {
			title = name
		}
		sub := newSection(s, key, title, true)
		sub.Emphasis = target != "" && name == target

		b.fill(sub, feat,
			spec{key: "name", label: "Name"},
			spec{key: "type", label: "Type"},
			spec{key: "encoder_type", label: "Encoder"},
			spec{key: "unique_values", label: "Unique Values"},
		)
		if samples := feat.List("sample_values"); !samples.Empty() {
			sub.Fields = append(sub.Fields, Field{
				Key:     "sample_values",
				Label:   "Sample Values",
				Raw:     samples,
				Display: format.TruncateList(samples, b.opts.SampleValues),
			})
		}
		b.child(sub, feat, "statistics", "Statistics",
			spec{key: "min", label: "Min", kind: number},
			spec{key: "max", label: "Max", kind: number},
			spec{key: "mean", label: "Mean", kind: number},
			spec{key: "std", label: "Std", kind: number},
			spec{key: "median", label: "Median", kind: number},
		)
		s.Subsections = append(s.Subsections, sub)
	}
}

func (b *builder) configuration(s *Section, n card.Node) {
	b.fill(s, n,
		spec{key: "epochs_total", label: "Total Epochs"},
		spec{key: "best_epoch", label: "Best Epoch"},
		spec{key: "d_model", label: "d_model"},
		spec{key: "batch_size", label: "Batch Size"},
		spec{key: "learning_rate", label: "Learning Rate", kind: number},
		spec{key: "optimizer", label: "Optimizer"},
	)
	b.child(s, n, "dropout_schedule", "Dropout Schedule",
		spec{key: "enabled", label: "Enabled"},
		spec{key: "initial", label: "Initial", kind: number},
		spec{key: "final", label: "Final", kind: number},
	)
}

func (b *builder) metrics(s *Section, n card.Node) {
	best := b.child(s, n, "best_epoch", "Best Epoch",
		spec{key: "epoch", label: "Epoch"},
		spec{key: "validation_loss", label: "Validation Loss", kind: number},
		spec{key: "train_loss", label: "Train Loss", kind: number},
	)
	if best.Present && !n.Get("best_epoch.spread_loss").IsAbsent() {
		b.fill(best, n.Child("best_epoch"),
			spec{key: "spread_loss", label: "Spread Loss", kind: number},
			spec{key: "joint_loss", label: "Joint Loss", kind: number},
			spec{key: "marginal_loss", label: "Marginal Loss", kind: number},
		)
	}
	b.child(s, n, "classification_metrics", "Classification Metrics",
		spec{key: "accuracy", label: "Accuracy", kind: percent},
		spec{key: "precision", label: "Precision", kind: percent},
		spec{key: "recall", label: "Recall", kind: percent},
		spec{key: "f1", label: "F1 Score", kind: percent},
		spec{key: "auc", label: "AUC", kind: percent},
		spec{key: "is_binary", label: "Binary"},
	)
	b.child(s, n, "optimal_threshold", "Optimal Threshold",
		spec{key: "optimal_threshold", label: "Threshold", kind: number},
		spec{key: "pos_label", label: "Pos Label"},
		spec{key: "optimal_threshold_f1", label: "F1", kind: percent},
		spec{key: "accuracy_at_optimal_threshold", label: "Accuracy", kind: percent},
	)
	b.child(s, n, "argmax_metrics", "Argmax Metrics",
		spec{key: "accuracy", label: "Accuracy", kind: percent},
		spec{key: "precision", label: "Precision", kind: percent},
		spec{key: "recall", label: "Recall", kind: percent},
		spec{key: "f1", label: "F1 Score", kind: percent},
	)
	b.child(s, n, "loss_progression", "Loss Progression",
		spec{key: "initial_train", label: "Initial Train Loss", kind: number},
		spec{key: "initial_val", label: "Initial Val Loss", kind: number},
		spec{key: "improvement_pct", label: "Improvement %", kind: number},
	)
	b.child(s, n, "final_epoch", "Final Epoch",
		spec{key: "epoch", label: "Epoch"},
		spec{key: "train_loss", label: "Train Loss", kind: number},
		spec{key: "val_loss", label: "Val Loss", kind: number},
	)
}

func (b *builder) quality(s *Section, n card.Node) {
	b.fill(s, n, spec{key: "assessment", label: "Assessment", domain: classify.QualityAssessment, optional: true})

	recs := n.Elements("recommendations")
	recSection := newSection(s, "recommendations", "Recommendations", len(recs) > 0)
	for i, rec := range recs {
		sub := newSection(recSection, strconv.Itoa(i), "Recommendation "+strconv.Itoa(i+1), true)
		b.fill(sub, rec,
			spec{key: "issue", label: "Issue"},
			spec{key: "suggestion", label: "Suggestion"},
		)
		recSection.Subsections = append(recSection.Subsections, sub)
	}
	if recSection.Present {
		s.Subsections = append(s.Subsections, recSection)
	}

	warnings := n.Elements("warnings")
	warnSection := newSection(s, "warnings", "Warnings", len(warnings) > 0)
	for i, w := range warnings {
		title := format.Text(w.Lookup("type"))
		sub := newSection(warnSection, strconv.Itoa(i), title, true)
		b.fill(sub, w,
			spec{key: "severity", label: "Severity", domain: classify.Severity},
			spec{key: "type", label: "Type"},
			spec{key: "message", label: "Message"},
			spec{key: "recommendation", label: "Recommendation", optional: true},
			spec{key: "details", label: "Details", kind: jsonText, optional: true},
		)
		warnSection.Subsections = append(warnSection.Subsections, sub)
	}
	if warnSection.Present {
		s.Subsections = append(s.Subsections, warnSection)
	}

	b.fill(s, n, spec{key: "training_quality_warning", label: "Training Quality Warning", optional: true})
}

func (b *builder) columnStatistics(s *Section, n card.Node) {
	for _, m := range n.Members("") {
		sub := newSection(s, m.Key, m.Key, true)
		b.fill(sub, m.Node,
			spec{key: "mutual_information_bits", label: "Mutual Information (bits)", kind: number},
			spec{key: "marginal_loss", label: "Marginal Loss", kind: number},
		)
		s.Subsections = append(s.Subsections, sub)
	}
}
