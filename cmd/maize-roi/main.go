package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/maize-roi/internal/config"
	"github.com/iwvelando/maize-roi/internal/logging"
	"github.com/iwvelando/maize-roi/internal/planner"
	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/output"
	"github.com/iwvelando/maize-roi/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, xlsx")
	outputFileFlag := flag.String("output-file", "", "workbook path for xlsx output")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	prices, _, err := planner.MarketSources(*conf)
	if err != nil {
		logger.Fatal("invalid market configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	results, err := planner.Run(context.Background(), logger, *conf, prices)
	if err != nil {
		logger.Fatal("failed to compute season plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, results)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, results)
	case constants.OutputFormatXLSX:
		path := conf.Output.File
		if *outputFileFlag != "" {
			path = *outputFileFlag
		}
		if path == "" {
			path = constants.DefaultXLSXFile
		}
		err = output.WriteXLSX(path, results)
		if err == nil {
			logger.Info("workbook written",
				zap.String("op", "main"),
				zap.String("path", path),
			)
		}
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
