package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/maize-roi/internal/config"
	"github.com/iwvelando/maize-roi/internal/planner"
	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/market"
	"github.com/iwvelando/maize-roi/pkg/output"
	"github.com/iwvelando/maize-roi/pkg/profit"
	"github.com/iwvelando/maize-roi/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Options configure the HTTP handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	// Prices and Weather back /api/market and replace the uploaded config's
	// market section when set.
	Prices  market.PriceSource
	Weather market.WeatherSource
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	prices        market.PriceSource
	weather       market.WeatherSource
}

// NewHandler constructs the HTTP handler that serves the web UI and plan API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		prices:        opts.Prices,
		weather:       opts.Weather,
	}

	mux := http.NewServeMux()

	// Plan API endpoint (file upload)
	mux.HandleFunc("/api/plan", h.handlePlan)

	// Plan API endpoint for editor-driven updates
	mux.HandleFunc("/api/editor/plan", h.handlePlanEditor)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	// Result downloads
	mux.HandleFunc("/api/editor/export.csv", h.handleCSVExport)
	mux.HandleFunc("/api/editor/export.xlsx", h.handleXLSXExport)

	// Placeholder market price and weather outlook
	mux.HandleFunc("/api/market", h.handleMarket)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type planResponse struct {
	RunID      string                 `json:"runId"`
	Scenarios  []scenarioResult       `json:"scenarios"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type scenarioResult struct {
	Name        string             `json:"name"`
	PricePerBag float64            `json:"pricePerBag"`
	PriceSource string             `json:"priceSource,omitempty"`
	WorkPlan    []workPlanRow      `json:"workPlan"`
	CashFlow    []cashFlowRow      `json:"cashFlow"`
	Summary     summaryMetrics     `json:"summary"`
	Sensitivity []sensitivityPoint `json:"sensitivity"`
	BreakEven   breakEvenMetric    `json:"breakEven"`
}

type workPlanRow struct {
	Activity  string  `json:"activity"`
	StartWeek int     `json:"startWeek"`
	EndWeek   int     `json:"endWeek"`
	LaborType string  `json:"laborType"`
	Duration  int     `json:"duration"`
	Cost      float64 `json:"cost"`
	RateFound bool    `json:"rateFound"`
}

type cashFlowRow struct {
	Week       string  `json:"week"`
	Date       string  `json:"date,omitempty"`
	Activity   string  `json:"activity"`
	Cost       float64 `json:"cost"`
	Income     float64 `json:"income"`
	NetFlow    float64 `json:"netFlow"`
	Cumulative float64 `json:"cumulative"`
}

type summaryMetrics struct {
	RepaymentType    string  `json:"repaymentType"`
	Principal        float64 `json:"principal"`
	ProcessingFee    float64 `json:"processingFee"`
	Interest         float64 `json:"interest"`
	Insurance        float64 `json:"insurance"`
	LaborCost        float64 `json:"laborCost"`
	ExtraExpenses    float64 `json:"extraExpenses"`
	TotalRepayment   float64 `json:"totalRepayment"`
	Revenue          float64 `json:"revenue"`
	Profit           float64 `json:"profit"`
	ROI              float64 `json:"roi"`
	Recommendation   string  `json:"recommendation"`
	Advice           string  `json:"advice"`
	LowestCumulative float64 `json:"lowestCumulative"`
}

type sensitivityPoint struct {
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

// breakEvenMetric leaves out thresholds that do not exist, since JSON cannot
// carry an infinite price.
type breakEvenMetric struct {
	MinPricePerBag *float64 `json:"minPricePerBag,omitempty"`
	MinBags        *int     `json:"minBags,omitempty"`
}

type marketResponse struct {
	Price   market.PriceQuote    `json:"price"`
	Weather market.WeatherReport `json:"weather"`
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handlePlan")
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handlePlan")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file", "server.handlePlan")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handlePlan"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), "server.handlePlan")
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), "server.handlePlan")
		return
	}

	h.respondPlan(w, r, configBytes, configMap, start, "server.handlePlan")
}

func (h *handler) handlePlanEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	configBytes, configMap, ok := h.decodeEditorConfig(w, r, "server.handlePlanEditor")
	if !ok {
		return
	}
	h.respondPlan(w, r, configBytes, configMap, start, "server.handlePlanEditor")
}

func (h *handler) handleCSVExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCSVExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	configBytes, _, ok := h.decodeEditorConfig(w, r, op)
	if !ok {
		return
	}
	results, _, ok := h.plan(w, r, configBytes, uuid.NewString(), op)
	if !ok {
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}
	h.writeAttachment(w, csvContentType, "maize-roi.csv", []byte(csvData))
}

func (h *handler) handleXLSXExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleXLSXExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	configBytes, _, ok := h.decodeEditorConfig(w, r, op)
	if !ok {
		return
	}
	results, _, ok := h.plan(w, r, configBytes, uuid.NewString(), op)
	if !ok {
		return
	}

	workbook, err := output.XLSXBytes(results)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render workbook: %v", err), op)
		return
	}
	h.writeAttachment(w, xlsxContentType, constants.DefaultXLSXFile, workbook)
}

func (h *handler) handleMarket(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMarket"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.prices == nil || h.weather == nil {
		h.respondError(w, http.StatusServiceUnavailable, "market data is not configured", op)
		return
	}

	quote, err := h.prices.CurrentPrice(r.Context())
	if err != nil {
		h.respondError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch market price: %v", err), op)
		return
	}
	report, err := h.weather.Outlook(r.Context())
	if err != nil {
		h.respondError(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch weather outlook: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, marketResponse{Price: quote, Weather: report})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// decodeEditorConfig reads a JSON editor payload, either a bare configuration
// or one wrapped as {"config": {...}}, and re-encodes it as YAML.
func (h *handler) decodeEditorConfig(w http.ResponseWriter, r *http.Request, op string) ([]byte, map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return nil, nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondError(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, nil, false
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return nil, nil, false
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), op)
		return nil, nil, false
	}
	return configBytes, configMap, true
}

// plan loads a configuration and runs every active scenario. It writes the
// error response itself and reports false on failure.
func (h *handler) plan(w http.ResponseWriter, r *http.Request, configBytes []byte, runID, op string) ([]planner.Result, []string, bool) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return nil, nil, false
	}
	warnings := cfg.ValidateConfiguration()

	prices := h.prices
	if prices == nil {
		prices, _, err = planner.MarketSources(*cfg)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid market configuration: %v", err), op)
			return nil, nil, false
		}
	}

	logger := h.logger.With(zap.String("runId", runID))
	results, err := planner.Run(r.Context(), logger, *cfg, prices)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, validation.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, fmt.Sprintf("failed to compute plan: %v", err), op)
		return nil, nil, false
	}
	return results, warnings, true
}

func (h *handler) respondPlan(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	runID := uuid.NewString()
	results, warnings, ok := h.plan(w, r, configBytes, runID, op)
	if !ok {
		return
	}

	csvData, err := output.CsvString(results)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := planResponse{
		RunID:      runID,
		Scenarios:  buildScenarios(results),
		CSV:        csvData,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("plan computed",
		zap.String("op", op),
		zap.String("runId", runID),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func buildScenarios(results []planner.Result) []scenarioResult {
	scenarios := make([]scenarioResult, 0, len(results))
	for _, result := range results {
		scenario := scenarioResult{
			Name:        result.Name,
			PricePerBag: result.Parameters.Farm.PricePerBag,
			WorkPlan:    make([]workPlanRow, 0, len(result.WorkPlan)),
			CashFlow:    make([]cashFlowRow, 0, len(result.CashFlow)),
			Sensitivity: make([]sensitivityPoint, 0, len(result.Sensitivity)),
			Summary:     buildSummary(result),
			BreakEven:   buildBreakEven(result.BreakEven),
		}
		if result.PriceQuote != nil {
			scenario.PriceSource = result.PriceQuote.Source
		}
		for _, row := range result.WorkPlan {
			scenario.WorkPlan = append(scenario.WorkPlan, workPlanRow{
				Activity:  row.Activity,
				StartWeek: row.StartWeek,
				EndWeek:   row.EndWeek,
				LaborType: row.LaborType,
				Duration:  row.Duration,
				Cost:      row.Cost,
				RateFound: row.RateFound,
			})
		}
		for _, entry := range result.CashFlow {
			scenario.CashFlow = append(scenario.CashFlow, cashFlowRow{
				Week:       entry.Week,
				Date:       entry.Date,
				Activity:   entry.Activity,
				Cost:       entry.Cost,
				Income:     entry.Income,
				NetFlow:    entry.NetFlow,
				Cumulative: entry.Cumulative,
			})
		}
		for _, point := range result.Sensitivity {
			scenario.Sensitivity = append(scenario.Sensitivity, sensitivityPoint{Price: point.Price, Profit: point.Profit})
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios
}

func buildSummary(result planner.Result) summaryMetrics {
	p := result.Profit
	return summaryMetrics{
		RepaymentType:    p.Terms.RepaymentType.String(),
		Principal:        p.Terms.Principal,
		ProcessingFee:    p.Terms.ProcessingFee,
		Interest:         p.Terms.Interest,
		Insurance:        p.Terms.InsuranceAmount,
		LaborCost:        p.LaborCost,
		ExtraExpenses:    p.ExtraExpenses,
		TotalRepayment:   p.TotalRepayment,
		Revenue:          p.Revenue,
		Profit:           p.Profit,
		ROI:              p.ROI,
		Recommendation:   p.Recommendation,
		Advice:           profit.Advice(p.Recommendation),
		LowestCumulative: result.CashSummary.LowestCumulative,
	}
}

func buildBreakEven(be profit.BreakEven) breakEvenMetric {
	var metric breakEvenMetric
	if !math.IsInf(be.MinPricePerBag, 0) {
		price := be.MinPricePerBag
		metric.MinPricePerBag = &price
	}
	if be.MinBags >= 0 {
		bags := be.MinBags
		metric.MinBags = &bags
	}
	return metric
}

// configKeyOrder lists top-level config keys in the order they are exported.
var configKeyOrder = []string{
	"farm", "loan", "laborRates", "workPlan", "expenses", "cashFlow",
	"sensitivity", "market", "scenarios", "logging", "output",
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("plan request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write attachment", zap.String("filename", filename), zap.Error(err))
	}
}
