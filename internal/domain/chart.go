package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChartKind тип сохранённой карты (колонка chart_type)
type ChartKind string

const (
	ChartKindBirth ChartKind = "birth_chart"
	ChartKindDasha ChartKind = "dasha_chart"
	ChartKindD2    ChartKind = "d2_chart"
	ChartKindD3    ChartKind = "d3_chart"
	ChartKindD4    ChartKind = "d4_chart"
	ChartKindD5    ChartKind = "d5_chart"
	ChartKindD6    ChartKind = "d6_chart"
	ChartKindD7    ChartKind = "d7_chart"
	ChartKindD8    ChartKind = "d8_chart"
	ChartKindD9    ChartKind = "d9_chart"
	ChartKindD10   ChartKind = "d10_chart"
	ChartKindD11   ChartKind = "d11_chart"
	ChartKindD12   ChartKind = "d12_chart"
	ChartKindD16   ChartKind = "d16_chart"
)

const (
	EndpointPlanets = "planets/extended"
	EndpointDashas  = "vimsottari/maha-dasas-and-antar-dasas"
)

// ChartKindInfo описание типа карты
type ChartKindInfo struct {
	Kind       ChartKind `json:"kind"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Endpoint   string    `json:"-"`
	Divisional bool      `json:"divisional"`
}

var chartKinds = []ChartKindInfo{
	{Kind: ChartKindBirth, Code: "D1", Name: "D1 Rashi (Birth Chart)", Endpoint: EndpointPlanets},
	{Kind: ChartKindDasha, Code: "VD", Name: "Vimshottari Dasha", Endpoint: EndpointDashas},
	{Kind: ChartKindD9, Code: "D9", Name: "D9 Navamsha (Marriage)", Endpoint: "navamsa-chart-info", Divisional: true},
	{Kind: ChartKindD3, Code: "D3", Name: "D3 Drekkana (Siblings)", Endpoint: "d3-chart-info", Divisional: true},
	{Kind: ChartKindD10, Code: "D10", Name: "D10 Dashamsha (Career)", Endpoint: "d10-chart-info", Divisional: true},
	{Kind: ChartKindD7, Code: "D7", Name: "D7 Saptamsha (Children)", Endpoint: "d7-chart-info", Divisional: true},
	{Kind: ChartKindD2, Code: "D2", Name: "D2 Hora (Wealth)", Endpoint: "d2-chart-info", Divisional: true},
	{Kind: ChartKindD4, Code: "D4", Name: "D4 Chaturthamsha (Property)", Endpoint: "d4-chart-info", Divisional: true},
	{Kind: ChartKindD12, Code: "D12", Name: "D12 Dwadashamsha (Parents)", Endpoint: "d12-chart-info", Divisional: true},
	{Kind: ChartKindD5, Code: "D5", Name: "D5 Panchamsha (Spiritual Merit)", Endpoint: "d5-chart-info", Divisional: true},
	{Kind: ChartKindD6, Code: "D6", Name: "D6 Shashthamsha (Health)", Endpoint: "d6-chart-info", Divisional: true},
	{Kind: ChartKindD8, Code: "D8", Name: "D8 Ashtamsha (Obstacles)", Endpoint: "d8-chart-info", Divisional: true},
	{Kind: ChartKindD11, Code: "D11", Name: "D11 Rudramsha (Dharma)", Endpoint: "d11-chart-info", Divisional: true},
	{Kind: ChartKindD16, Code: "D16", Name: "D16 Shodashamsha (Vehicles)", Endpoint: "d16-chart-info", Divisional: true},
}

// AllChartKinds возвращает все типы карт в порядке отображения
func AllChartKinds() []ChartKindInfo {
	out := make([]ChartKindInfo, len(chartKinds))
	copy(out, chartKinds)
	return out
}

// DivisionalChartKinds возвращает варги в фиксированном порядке загрузки
func DivisionalChartKinds() []ChartKind {
	var kinds []ChartKind
	for _, info := range chartKinds {
		if info.Divisional {
			kinds = append(kinds, info.Kind)
		}
	}
	return kinds
}

func (k ChartKind) Info() (ChartKindInfo, bool) {
	for _, info := range chartKinds {
		if info.Kind == k {
			return info, true
		}
	}
	return ChartKindInfo{}, false
}

func (k ChartKind) IsValid() bool {
	_, ok := k.Info()
	return ok
}

// BirthData минимальный набор для расчёта карты
type BirthData struct {
	Date      *time.Time
	Time      *string
	Latitude  *float64
	Longitude *float64
	TZOffset  *float64
}

// ChartRequest плоский запрос к астро-API
type ChartRequest struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Date      int     `json:"date"`
	Hours     int     `json:"hours"`
	Minutes   int     `json:"minutes"`
	Seconds   int     `json:"seconds"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  float64 `json:"timezone"`
}

// SavedChart кэшированный результат расчёта, один на (user_id, chart_type)
type SavedChart struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	ChartType ChartKind       `json:"chart_type" db:"chart_type"`
	ChartData json.RawMessage `json:"chart_data" db:"chart_data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Unknown значение поля сводки по умолчанию
const Unknown = "Unknown"

// ChartSummary человекочитаемые поля карты
type ChartSummary struct {
	Ascendant    string `json:"ascendant"`
	MoonSign     string `json:"moonSign"`
	SunSign      string `json:"sunSign"`
	CurrentDasha string `json:"currentDasha"`
}

func UnknownSummary() ChartSummary {
	return ChartSummary{
		Ascendant:    Unknown,
		MoonSign:     Unknown,
		SunSign:      Unknown,
		CurrentDasha: Unknown,
	}
}

// ChartState состояние процесса получения карты
type ChartState string

const (
	ChartStateIdle          ChartState = "idle"
	ChartStateIncomplete    ChartState = "incomplete"
	ChartStateCheckingCache ChartState = "checking_cache"
	ChartStateFetching      ChartState = "fetching"
	ChartStatePersisting    ChartState = "persisting"
	ChartStateReducing      ChartState = "reducing"
	ChartStateDone          ChartState = "done"
	ChartStateError         ChartState = "error"
)

const (
	ChartSourceCache  = "cache"
	ChartSourceRemote = "remote"
)

// DebugInfo данные для разбора ошибки провайдера
type DebugInfo struct {
	ResponseError string        `json:"responseError"`
	Details       string        `json:"details,omitempty"`
	RequestData   *ChartRequest `json:"requestData,omitempty"`
}

// ChartResult итог одного прогона процесса
type ChartResult struct {
	Kind            ChartKind       `json:"kind"`
	State           ChartState      `json:"state"`
	Transitions     []ChartState    `json:"transitions"`
	Source          string          `json:"source,omitempty"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	Summary         *ChartSummary   `json:"summary,omitempty"`
	ProcessingError string          `json:"processingError,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Error           string          `json:"error,omitempty"`
	Debug           *DebugInfo      `json:"debug,omitempty"`
}

func NewChartResult(kind ChartKind) *ChartResult {
	return &ChartResult{
		Kind:        kind,
		State:       ChartStateIdle,
		Transitions: []ChartState{ChartStateIdle},
	}
}

// Advance переводит процесс в следующее состояние и запоминает переход
func (r *ChartResult) Advance(state ChartState) {
	r.State = state
	r.Transitions = append(r.Transitions, state)
}

// IsKnownEndpoint проверяет, что эндпоинт провайдера принадлежит одному из типов карт
func IsKnownEndpoint(endpoint string) bool {
	for _, info := range chartKinds {
		if info.Endpoint == endpoint {
			return true
		}
	}
	return false
}
