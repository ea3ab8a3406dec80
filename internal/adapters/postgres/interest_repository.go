package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InterestRepository - хранилище записей интереса. Каждый сайт пишет
// в свою таблицу интересов (из реестра сайтов).
type InterestRepository struct {
	pool *pgxpool.Pool
}

// NewInterestRepository - конструктор.
func NewInterestRepository(pool *pgxpool.Pool) (*InterestRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &InterestRepository{pool: pool}, nil
}

// Insert добавляет запись интереса.
// Повторная заявка того же контакта на тот же участок не считается ошибкой.
func (r *InterestRepository) Insert(ctx context.Context, interest *domain.Interest) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "InterestRepository",
		"method":    "Insert",
		"site_id":   interest.SiteID,
		"plot_id":   interest.PlotID,
	})

	site, err := constants.SiteByID(interest.SiteID)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, plot_id, fullname, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, site.InterestTable)

	_, err = r.pool.Exec(ctx, query,
		interest.ID, interest.PlotID, interest.Fullname,
		interest.Email, interest.Phone, interest.Message, interest.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			repoLogger.Warn("Interest already recorded, operation considered successful.", nil)
			return nil
		}
		repoLogger.Error("Failed to insert interest", err, nil)
		return fmt.Errorf("failed to insert interest: %w", err)
	}

	repoLogger.Debug("Interest recorded.", nil)
	return nil
}
