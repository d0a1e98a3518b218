package report

import (
	"golang.org/x/text/language"

	"github.com/nao1215/flowreport/internal/model"
)

// Messages holds the translatable text of the Markdown report.
// Field labels that are technical identifiers (ID, QoS, SSL, ...) stay the same
// in every language.
type Messages struct {
	// Tag is the language the messages are written in.
	Tag language.Tag

	// CountFormat formats a heading with its item count.
	CountFormat string

	Title         string
	Overview      string
	TotalNodes    string
	NodeTypes     string
	PageCount     string
	FunctionCount string
	ChartTitle    string

	PageList  string
	GroupList string
	Path      string
	Icon      string
	InPage    string
	Width     string
	Height    string

	UIComponents string
	Page         string
	Group        string
	Scope        string
	ChartType    string

	Messaging string
	Broker    string
	Host      string
	Port      string
	ClientID  string
	MQTTIn    string
	MQTTOut   string
	Topic     string

	HTTP string
	Name string

	Database      string
	DatabaseLabel string

	Functions  string
	Outputs    string
	Code       string
	Categories map[model.Category]string

	Theme          string
	ThemeLabel     string
	Primary        string
	Background     string
	BackgroundPage string

	Base      string
	BaseTitle string
}

var english = Messages{
	Tag:           language.English,
	CountFormat:   "%s (%d)",
	Title:         "Node-RED Flow Analysis Report",
	Overview:      "Application Overview",
	TotalNodes:    "Total nodes",
	NodeTypes:     "Node types",
	PageCount:     "Pages",
	FunctionCount: "Function nodes",
	ChartTitle:    "Function Categories",

	PageList:  "Pages",
	GroupList: "UI Groups",
	Path:      "Path",
	Icon:      "Icon",
	InPage:    "page",
	Width:     "Width",
	Height:    "Height",

	UIComponents: "UI Components",
	Page:         "Page",
	Group:        "Group",
	Scope:        "Scope",
	ChartType:    "Chart type",

	Messaging: "MQTT Configuration",
	Broker:    "Broker",
	Host:      "Host",
	Port:      "Port",
	ClientID:  "Client ID",
	MQTTIn:    "MQTT In nodes",
	MQTTOut:   "MQTT Out nodes",
	Topic:     "Topic",

	HTTP: "HTTP API Endpoints",
	Name: "Name",

	Database:      "PostgreSQL Configuration",
	DatabaseLabel: "Database",

	Functions: "Function Node Code",
	Outputs:   "Outputs",
	Code:      "Code",
	Categories: map[model.Category]string{
		model.CategoryAuth:         "Authentication",
		model.CategoryDataParsing:  "Data Parsers",
		model.CategorySQLGenerator: "SQL Generators",
		model.CategoryUIFormatting: "UI Formatting",
		model.CategoryConfigSync:   "Config Sync",
		model.CategoryOther:        "Other",
	},

	Theme:          "UI Theme",
	ThemeLabel:     "Theme",
	Primary:        "Primary",
	Background:     "Background",
	BackgroundPage: "Background Page",

	Base:      "UI Base",
	BaseTitle: "Title",
}

var traditionalChinese = Messages{
	Tag:           language.TraditionalChinese,
	CountFormat:   "%s (%d 個)",
	Title:         "Node-RED Flow 完整功能分析報告",
	Overview:      "應用架構概覽",
	TotalNodes:    "總節點數量",
	NodeTypes:     "節點類型數量",
	PageCount:     "頁面數量",
	FunctionCount: "Function 節點數量",
	ChartTitle:    "Function 分類",

	PageList:  "頁面清單",
	GroupList: "UI 群組清單",
	Path:      "路徑",
	Icon:      "圖標",
	InPage:    "屬於頁面",
	Width:     "寬度",
	Height:    "高度",

	UIComponents: "UI 組件分析",
	Page:         "頁面",
	Group:        "群組",
	Scope:        "Scope",
	ChartType:    "圖表類型",

	Messaging: "MQTT 配置",
	Broker:    "Broker",
	Host:      "Host",
	Port:      "Port",
	ClientID:  "Client ID",
	MQTTIn:    "MQTT In 節點",
	MQTTOut:   "MQTT Out 節點",
	Topic:     "Topic",

	HTTP: "HTTP API 端點",
	Name: "Name",

	Database:      "PostgreSQL 配置",
	DatabaseLabel: "Database",

	Functions: "關鍵 Function 節點程式碼",
	Outputs:   "Outputs",
	Code:      "程式碼",
	Categories: map[model.Category]string{
		model.CategoryAuth:         "認證與授權",
		model.CategoryDataParsing:  "數據解析器",
		model.CategorySQLGenerator: "SQL 生成器",
		model.CategoryUIFormatting: "UI 格式化",
		model.CategoryConfigSync:   "配置同步",
		model.CategoryOther:        "其他功能",
	},

	Theme:          "UI 主題配置",
	ThemeLabel:     "Theme",
	Primary:        "Primary",
	Background:     "Background",
	BackgroundPage: "Background Page",

	Base:      "UI Base 配置",
	BaseTitle: "Title",
}

// catalog lists the available translations. The first entry is the fallback.
var catalog = []*Messages{&english, &traditionalChinese}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.TraditionalChinese,
})

// MessagesFor returns the messages best matching a BCP 47 language tag.
// Unsupported or malformed tags fall back to English.
func MessagesFor(lang string) *Messages {
	_, index := language.MatchStrings(matcher, lang)
	if index < 0 || index >= len(catalog) {
		return catalog[0]
	}
	return catalog[index]
}

// CategoryName returns the localized heading of a function category.
func (m *Messages) CategoryName(c model.Category) string {
	if name, ok := m.Categories[c]; ok {
		return name
	}
	return c.String()
}
