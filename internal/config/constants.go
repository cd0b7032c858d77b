package config

// Application constants
const (
	AppName = "covidchart"

	// EnvPrefix namespaces every environment variable: COVID_LOGGING_LEVEL, ...
	EnvPrefix = "COVID"

	// ConfigFileEnv names an explicit YAML config file
	ConfigFileEnv = "COVID_CONFIG_FILE"

	// DailyReportsSubdir is the daily report directory inside a clone of
	// the JHU CSSE COVID-19 repository
	DailyReportsSubdir = "COVID-19/csse_covid_19_data/csse_covid_19_daily_reports"

	// ReportDateLayout is the MM-DD-YYYY form of dates in filenames and flags
	ReportDateLayout = "01-02-2006"

	// LabelDateLayout is the MM-DD form of chart labels
	LabelDateLayout = "01-02"

	// LatestDate selects the newest available snapshot as the end date
	LatestDate = "latest"

	// Attribution is printed under every chart
	Attribution = "Novel Coronavirus (COVID-19) Cases, provided by JHU CSSE, https://github.com/CSSEGISandData/COVID-19"
)

// Command line defaults
const (
	DefaultStartDate = "03-22-2020"
	DefaultEndDate   = LatestDate
	DefaultMetric    = "Confirmed"
	DefaultCountry   = "US"
	DefaultRepoPath  = "."
	DefaultFormat    = "png"

	// Chart size in inches
	DefaultChartWidth  = 6.4
	DefaultChartHeight = 4.8

	DefaultLogFile = "logs/covidchart.log"
)

// Supported chart and export formats
var (
	ChartFormats  = []string{"png", "svg", "pdf"}
	ExportFormats = []string{"csv", "xlsx"}
)
