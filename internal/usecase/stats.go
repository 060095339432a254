package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/xavierca1/autoseller/internal/entity"
)

type StatsRange string

const (
	RangeToday StatsRange = "today"
	Range7d    StatsRange = "7d"
	Range30d   StatsRange = "30d"
)

type StageCount struct {
	Stage entity.SalesStage `json:"stage"`
	Count int               `json:"count"`
}

type DashboardStats struct {
	Range          StatsRange     `json:"range"`
	Total          int            `json:"total"`
	Converted      int            `json:"converted"`
	Active         int            `json:"active"`
	Lost           int            `json:"lost"`
	ConversionRate float64        `json:"conversion_rate"`
	Funnel         []StageCount   `json:"funnel"`
	Recent         []*entity.Lead `json:"recent"`
}

type StatsService struct {
	Leads entity.LeadRepositoryInterface
	Now   func() time.Time
}

func NewStatsService(leads entity.LeadRepositoryInterface) *StatsService {
	return &StatsService{Leads: leads, Now: time.Now}
}

// Dashboard agrega os leads criados dentro da janela. "30d" considera todos.
func (s *StatsService) Dashboard(ctx context.Context, accountID string, r StatsRange) (*DashboardStats, error) {
	if r == "" {
		r = Range30d
	}
	if r != RangeToday && r != Range7d && r != Range30d {
		return nil, &DomainError{Code: CodeValidation, Message: "range deve ser today, 7d ou 30d"}
	}

	leads, err := s.Leads.List(ctx, accountID)
	if err != nil {
		return nil, dbError("erro ao listar leads", err)
	}

	return ComputeStats(leads, r, s.Now()), nil
}

func ComputeStats(leads []*entity.Lead, r StatsRange, now time.Time) *DashboardStats {
	var window time.Duration
	switch r {
	case RangeToday:
		window = 24 * time.Hour
	case Range7d:
		window = 7 * 24 * time.Hour
	}

	filtered := make([]*entity.Lead, 0, len(leads))
	for _, l := range leads {
		if window > 0 && now.Sub(l.CreatedAt) >= window {
			continue
		}
		filtered = append(filtered, l)
	}

	stats := &DashboardStats{
		Range:  r,
		Total:  len(filtered),
		Funnel: make([]StageCount, 0, len(entity.SalesStages)),
	}

	perStage := make(map[entity.SalesStage]int)
	for _, l := range filtered {
		perStage[l.SalesStage]++
		switch l.Status {
		case entity.LeadStatusConvertido:
			stats.Converted++
		case entity.LeadStatusAtivo:
			stats.Active++
		case entity.LeadStatusPerdido:
			stats.Lost++
		}
	}

	for _, stage := range entity.SalesStages {
		stats.Funnel = append(stats.Funnel, StageCount{Stage: stage, Count: perStage[stage]})
	}

	if stats.Total > 0 {
		rate := float64(stats.Converted) / float64(stats.Total) * 100
		stats.ConversionRate = math.Round(rate*10) / 10
	}

	recent := append([]*entity.Lead(nil), filtered...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastActivity.After(recent[j].LastActivity)
	})
	if len(recent) > 4 {
		recent = recent[:4]
	}
	stats.Recent = recent

	return stats
}
