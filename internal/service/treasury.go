package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/recon"
	"github.com/linemk/treasury-admin/internal/storage"
	"github.com/linemk/treasury-admin/internal/upstream"
)

// TreasuryService определяет интерфейс сверки казны для транспортного слоя.
type TreasuryService interface {
	// Snapshot возвращает последний построенный снапшот, при холодном старте строит его.
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	// Refresh принудительно пересчитывает снапшот с заданными параметрами.
	Refresh(ctx context.Context, params RefreshParams) (*models.Snapshot, error)
	// Attribution возвращает связи атрибуции последнего прогона для аудита.
	Attribution(ctx context.Context) []models.AttributionLink
}

// RefreshParams — параметры пересчета; нулевые поля заменяются настройками из конфига.
type RefreshParams struct {
	Limit int // сколько записей леджера запрашивать у источника
	TopN  int // размер таблицы получателей
}

type treasuryService struct {
	log       *slog.Logger
	ledger    upstream.LedgerSource
	summaries upstream.SummarySource
	mirror    storage.LedgerStorage // nil — сервис работает без зеркала
	defaults  RefreshParams

	// последний результат целиком подменяется атомарно: идущее параллельно
	// чтение всегда видит согласованный снапшот, блокировок нет
	last atomic.Pointer[recon.Result]
}

func NewTreasuryService(log *slog.Logger, ledger upstream.LedgerSource, summaries upstream.SummarySource, mirror storage.LedgerStorage, defaults RefreshParams) TreasuryService {
	if defaults.Limit <= 0 {
		defaults.Limit = 1000
	}
	if defaults.TopN <= 0 {
		defaults.TopN = recon.DefaultTopN
	}
	return &treasuryService{
		log:       log,
		ledger:    ledger,
		summaries: summaries,
		mirror:    mirror,
		defaults:  defaults,
	}
}

func (s *treasuryService) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	if res := s.last.Load(); res != nil {
		return &res.Snapshot, nil
	}
	return s.Refresh(ctx, RefreshParams{})
}

func (s *treasuryService) Attribution(ctx context.Context) []models.AttributionLink {
	if res := s.last.Load(); res != nil {
		return res.Links
	}
	return nil
}

// Refresh — один прогон сверки: загрузка леджера и сводок, построение
// снапшота, атомарная подмена кэша. Ошибки внешних источников не фатальны:
// леджер берется из зеркала, недоступные сводки заменяются локальным расчетом,
// снапшот строится в любом случае.
func (s *treasuryService) Refresh(ctx context.Context, params RefreshParams) (*models.Snapshot, error) {
	const op = "service.TreasuryService.Refresh"
	if params.Limit <= 0 {
		params.Limit = s.defaults.Limit
	}
	if params.TopN <= 0 {
		params.TopN = s.defaults.TopN
	}
	logger := s.log.With(
		slog.String("op", op),
		slog.Int("limit", params.Limit),
		slog.Int("topN", params.TopN),
	)
	logger.Info("rebuilding treasury snapshot")

	txs, err := s.fetchLedger(ctx, logger, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load ledger: %w", op, err)
	}

	reported := s.fetchReported(ctx, logger)

	result := recon.BuildSnapshot(txs, reported, recon.Params{TopN: params.TopN})
	s.last.Store(&result)

	logger.Info("treasury snapshot rebuilt",
		slog.String("snapshotID", result.Snapshot.ID),
		slog.Int("transactions", result.Snapshot.TransactionCount),
		slog.Int("attributionLinks", len(result.Links)),
	)
	return &result.Snapshot, nil
}

// fetchLedger загружает страницу леджера из источника, при успехе дописывает
// ее в зеркало, при отказе источника читает зеркало. Ошибка возвращается
// только когда не отдали ни источник, ни зеркало.
func (s *treasuryService) fetchLedger(ctx context.Context, logger *slog.Logger, limit int) ([]models.Transaction, error) {
	txs, err := s.ledger.Transactions(ctx, limit)
	if err == nil {
		if s.mirror != nil {
			// зеркало пополняется по мере возможности, его отказ не мешает сверке
			if saveErr := s.mirror.SaveTransactions(ctx, txs); saveErr != nil {
				logger.Warn("failed to update ledger mirror", slog.Any("error", saveErr))
			}
		}
		return txs, nil
	}

	logger.Warn("upstream ledger unavailable", slog.Any("error", err))
	if s.mirror == nil {
		return nil, err
	}
	mirrored, mirrorErr := s.mirror.GetTransactions(ctx, limit)
	if mirrorErr != nil {
		logger.Error("ledger mirror unavailable", slog.Any("error", mirrorErr))
		return nil, fmt.Errorf("upstream: %w, mirror: %s", err, mirrorErr)
	}
	logger.Info("reconciling from ledger mirror", slog.Int("transactions", len(mirrored)))
	return mirrored, nil
}

// fetchReported собирает отчетные цифры источника. Каждая сводка опциональна:
// недоступная остается нулевой, и построитель снапшота подставит локальный расчет.
func (s *treasuryService) fetchReported(ctx context.Context, logger *slog.Logger) recon.Reported {
	var reported recon.Reported

	if balance, err := s.summaries.Balance(ctx); err != nil {
		logger.Warn("balance summary unavailable", slog.Any("error", err))
	} else {
		reported.Balance = balance.Balance
		reported.Currency = balance.Currency
	}

	if summary, err := s.summaries.WithdrawnSummary(ctx); err != nil {
		logger.Warn("withdrawn summary unavailable", slog.Any("error", err))
	} else {
		reported.Withdrawn = summary.Withdrawn
		reported.Deposited = summary.Deposited
	}

	if summary, err := s.summaries.SurplusSummary(ctx); err != nil {
		logger.Warn("surplus summary unavailable", slog.Any("error", err))
	} else {
		reported.Surplus = summary.Surplus
	}

	if summary, err := s.summaries.UserGainsSummary(ctx); err != nil {
		logger.Warn("user gains summary unavailable", slog.Any("error", err))
	} else {
		reported.UserGains = summary.UserGains
	}

	return reported
}
