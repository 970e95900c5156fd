// Package constants provides shared constants for the maize-roi application.
package constants

// SeasonDateLayout is the format expected for the season start date in
// config files and is also the output date format for cash-flow weeks.
const SeasonDateLayout = "2006-01-02"

// Loan constants. These rates are fixed by the lender and are not
// configurable.
const (
	// DefaultLoanBudget is the fixed principal budget in MWK
	DefaultLoanBudget = 4452000.0

	// ProcessingFeeRate is the fraction of the budget charged as a fee
	ProcessingFeeRate = 0.055

	// BulletInterestRate is the flat interest rate for bullet repayment
	BulletInterestRate = 0.022

	// InstallmentsInterestRate is the flat interest rate for two-tranche repayment
	InstallmentsInterestRate = 0.044

	// InsuranceRate is the crop insurance premium as a fraction of the budget
	InsuranceRate = 0.05
)

// Work plan constants
const (
	// WorkingDaysPerWeek scales per-day labor rates to a weekly cost
	WorkingDaysPerWeek = 5

	// TractorLaborType is the labor type priced per acre rather than per day
	TractorLaborType = "Tractor"

	// DefaultIncomeActivity is the activity that receives the season's sale income
	DefaultIncomeActivity = "Post-Harvest Handling"
)

// Sensitivity sweep defaults (MWK per bag)
const (
	DefaultSweepLow  = 30000.0
	DefaultSweepHigh = 100000.0
	DefaultSweepStep = 5000.0
)

// Recommendation values
const (
	RecommendationProfitable = "profitable"
	RecommendationLossMaking = "loss-making"
)

// CurrencyLabel is carried on formatted amounts only.
const CurrencyLabel = "MWK"

// DefaultScenarioName is used when the configuration declares no scenarios.
const DefaultScenarioName = "baseline"

// Market placeholder defaults
const (
	DefaultMarketPricePerBag  = 60000.0
	DefaultMarketPriceSource  = "static"
	DefaultWeatherDescription = "no forecast available"
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 tambala)
	CurrencyTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX writes a workbook to the configured output file
	OutputFormatXLSX = "xlsx"

	// DefaultXLSXFile is the workbook written when no output file is configured
	DefaultXLSXFile = "maize-roi.xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "MAIZE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
