package report

import (
	"errors"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/flowreport/internal/model"
)

// Defaults substituted for absent fields.
const (
	defaultTemplateScope = "local"
	defaultChartType     = "line"
	defaultQoS           = "0"
	defaultSSL           = "false"
	defaultOutputs       = "1"
	defaultBasePath      = "/"
	defaultBaseTitle     = "Dashboard"
)

// ErrNoDocument is returned when an analysis has not been loaded yet.
var ErrNoDocument = errors.New("analysis has no loaded document")

// MarkdownWriter outputs the flow report in Markdown format.
// Sections are written in a fixed order. The overview is always present;
// every other section is left out, heading included, when it has nothing to list.
type MarkdownWriter struct {
	baseWriter

	// messages is the localized report text.
	messages *Messages

	// categoryChart adds a mermaid pie chart of function categories to the overview.
	categoryChart bool
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithLanguage selects the report language by BCP 47 tag.
func WithLanguage(lang string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.messages = MessagesFor(lang)
	}
}

// WithCategoryChart enables the function category pie chart.
func WithCategoryChart(enabled bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.categoryChart = enabled
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		messages:   &english,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report for the analysis's document.
func (w *MarkdownWriter) Write(a *model.Analysis) (int, error) {
	if a == nil || a.Document == nil {
		return 0, ErrNoDocument
	}

	r := &markdownReport{
		md:        markdown.NewMarkdown(w.output),
		msg:       w.messages,
		doc:       a.Document,
		functions: a.Document.FunctionsByCategory(model.NewClassifier()),
	}

	r.md.H1(r.msg.Title)
	r.md.PlainText("")

	r.writeOverview(w.categoryChart)
	r.writeUIComponents()
	r.writeMessaging()
	r.writeHTTPEndpoints()
	r.writeDatabase()
	r.writeFunctions()
	r.writeTheme()
	r.writeBase()

	return len(r.md.String()), r.md.Build()
}

// markdownReport holds the state of one Markdown rendering.
type markdownReport struct {
	md        *markdown.Markdown
	msg       *Messages
	doc       *model.Document
	functions map[model.Category][]model.Node

	// section is the number of the last top-level section written.
	section int
}

// heading writes the next numbered top-level section heading.
func (r *markdownReport) heading(title string) {
	r.section++
	r.md.H2f("%d. %s", r.section, title)
	r.md.PlainText("")
}

// countHeading writes a subsection heading with its item count.
func (r *markdownReport) countHeading(title string, n int) {
	r.md.H3f(r.msg.CountFormat, title, n)
	r.md.PlainText("")
}

// field writes a nested "label: value" line under a list entry.
func (r *markdownReport) field(label, value string) {
	r.md.PlainTextf("  - %s: %s", label, value)
}

// codeField writes a nested "label: `value`" line under a list entry.
func (r *markdownReport) codeField(label, value string) {
	r.md.PlainTextf("  - %s: %s", label, markdown.Code(value))
}

// end closes a list entry.
func (r *markdownReport) end() {
	r.md.PlainText("")
}

func (r *markdownReport) writeOverview(chart bool) {
	r.heading(r.msg.Overview)

	r.md.BulletList(
		markdown.Bold(r.msg.TotalNodes)+": "+strconv.Itoa(r.doc.Len()),
		markdown.Bold(r.msg.NodeTypes)+": "+strconv.Itoa(r.doc.TypeCount()),
		markdown.Bold(r.msg.PageCount)+": "+strconv.Itoa(r.doc.CountOf(model.TypeUIPage)),
		markdown.Bold(r.msg.FunctionCount)+": "+strconv.Itoa(r.doc.CountOf(model.TypeFunction)),
	)
	r.md.PlainText("")

	if chart && len(r.functions) > 0 {
		r.writeCategoryChart()
	}

	r.writePages()
	r.writeGroups()
}

// writeCategoryChart writes a mermaid pie chart of function categories.
func (r *markdownReport) writeCategoryChart() {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(r.msg.ChartTitle),
		piechart.WithShowData(true),
	)

	for _, category := range model.Categories() {
		if n := len(r.functions[category]); n > 0 {
			chart.LabelAndIntValue(r.msg.CategoryName(category), uint64(n))
		}
	}

	r.md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	r.md.PlainText("")
}

func (r *markdownReport) writePages() {
	pages := r.doc.NodesOf(model.TypeUIPage)
	if len(pages) == 0 {
		return
	}

	r.md.H3(r.msg.PageList)
	r.md.PlainText("")

	for _, page := range pages {
		r.md.BulletList(markdown.Bold(page.Text("name")))
		r.codeField(r.msg.Path, page.Text("path"))
		r.codeField(r.msg.Icon, page.Text("icon"))
		r.codeField("ID", page.Text("id"))
		r.end()
	}
}

func (r *markdownReport) writeGroups() {
	groups := r.doc.NodesOf(model.TypeUIGroup)
	if len(groups) == 0 {
		return
	}

	r.md.H3(r.msg.GroupList)
	r.md.PlainText("")

	for _, group := range groups {
		page := r.doc.PageName(group.String("page", ""))
		r.md.BulletList(markdown.Bold(group.Text("name")) + " (" + r.msg.InPage + ": " + page + ")")
		r.md.PlainTextf("  - %s: %s | %s: %s",
			r.msg.Width, group.Text("width"),
			r.msg.Height, group.Text("height"))
		r.codeField("ID", group.Text("id"))
		r.end()
	}
}

func (r *markdownReport) writeUIComponents() {
	total := 0
	for _, typ := range model.UIComponentTypes {
		total += r.doc.CountOf(typ)
	}
	if total == 0 {
		return
	}

	r.heading(r.msg.UIComponents)

	for _, typ := range model.UIComponentTypes {
		components := r.doc.NodesOf(typ)
		if len(components) == 0 {
			continue
		}

		r.countHeading(typ, len(components))
		for _, component := range components {
			page, group := r.doc.Placement(component)

			r.md.BulletList(markdown.Bold(component.Name()))
			r.field(r.msg.Page, page)
			r.field(r.msg.Group, group)
			switch typ {
			case model.TypeUITemplate:
				r.field(r.msg.Scope, component.String("templateScope", defaultTemplateScope))
			case model.TypeUIChart:
				r.field(r.msg.ChartType, component.String("chartType", defaultChartType))
			}
			r.end()
		}
	}
}

func (r *markdownReport) writeMessaging() {
	brokers := r.doc.NodesOf(model.TypeMQTTBroker)
	inputs := r.doc.NodesOf(model.TypeMQTTIn)
	outputs := r.doc.NodesOf(model.TypeMQTTOut)
	if len(brokers)+len(inputs)+len(outputs) == 0 {
		return
	}

	r.heading(r.msg.Messaging)

	for _, broker := range brokers {
		r.md.BulletList(markdown.Bold(r.msg.Broker) + ": " + broker.Name())
		r.field(r.msg.Host, broker.Text("broker"))
		r.field(r.msg.Port, broker.Text("port"))
		r.field(r.msg.ClientID, broker.Text("clientid"))
		r.end()
	}

	r.writeMQTTNodes(r.msg.MQTTIn, inputs)
	r.writeMQTTNodes(r.msg.MQTTOut, outputs)
}

func (r *markdownReport) writeMQTTNodes(title string, nodes []model.Node) {
	if len(nodes) == 0 {
		return
	}

	r.countHeading(title, len(nodes))
	for _, n := range nodes {
		r.md.BulletList(markdown.Bold(n.Name()))
		r.codeField(r.msg.Topic, n.Text("topic"))
		r.field("QoS", n.String("qos", defaultQoS))
		r.end()
	}
}

func (r *markdownReport) writeHTTPEndpoints() {
	endpoints := r.doc.NodesOf(model.TypeHTTPIn)
	if len(endpoints) == 0 {
		return
	}

	r.heading(r.msg.HTTP)

	for _, endpoint := range endpoints {
		r.md.BulletList(markdown.Bold(model.Endpoint(endpoint)))
		r.field(r.msg.Name, endpoint.Name())
		r.end()
	}
}

func (r *markdownReport) writeDatabase() {
	configs := r.doc.NodesOf(model.TypePostgreSQLConfig)
	if len(configs) == 0 {
		return
	}

	r.heading(r.msg.Database)

	for _, cfg := range configs {
		r.md.BulletList(markdown.Bold(r.msg.DatabaseLabel) + ": " + cfg.Name())
		r.field(r.msg.Host, cfg.Text("host"))
		r.field(r.msg.Port, cfg.Text("port"))
		r.field(r.msg.DatabaseLabel, cfg.Text("database"))
		r.field("SSL", cfg.String("ssl", defaultSSL))
		r.end()
	}
}

func (r *markdownReport) writeFunctions() {
	if len(r.functions) == 0 {
		return
	}

	r.heading(r.msg.Functions)

	for _, category := range model.Categories() {
		functions := r.functions[category]
		if len(functions) == 0 {
			continue
		}

		r.countHeading(r.msg.CategoryName(category), len(functions))
		for _, fn := range functions {
			r.md.H4(fn.Name())
			r.md.PlainText("")
			r.md.BulletList(
				markdown.Bold("ID")+": "+markdown.Code(fn.Text("id")),
				markdown.Bold(r.msg.Outputs)+": "+fn.String("outputs", defaultOutputs),
				markdown.Bold(r.msg.Code)+":",
			)
			r.md.PlainText("")
			r.md.CodeBlocks(markdown.SyntaxHighlightJavaScript, fn.String("func", ""))
			r.md.PlainText("")
		}
	}
}

func (r *markdownReport) writeTheme() {
	themes := r.doc.NodesOf(model.TypeUITheme)
	if len(themes) == 0 {
		return
	}

	r.heading(r.msg.Theme)

	for _, theme := range themes {
		r.md.BulletList(markdown.Bold(r.msg.ThemeLabel) + ": " + theme.Name())
		if colors, ok := theme.Map("colors"); ok {
			r.codeField(r.msg.Primary, colors.String("primary", model.NotAvailable))
			r.codeField(r.msg.Background, colors.String("bg", model.NotAvailable))
			r.codeField(r.msg.BackgroundPage, colors.String("bgPage", model.NotAvailable))
		}
		r.end()
	}
}

func (r *markdownReport) writeBase() {
	bases := r.doc.NodesOf(model.TypeUIBase)
	if len(bases) == 0 {
		return
	}

	r.heading(r.msg.Base)

	for _, base := range bases {
		r.md.BulletList(
			markdown.Bold(r.msg.Path)+": "+markdown.Code(base.String("path", defaultBasePath)),
			markdown.Bold(r.msg.BaseTitle)+": "+base.String("title", defaultBaseTitle),
		)
		r.end()
	}
}
