package skillrepository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Amund211/rlstats/internal/adapters/database"
	"github.com/Amund211/rlstats/internal/config"
	"github.com/Amund211/rlstats/internal/domain"
	"github.com/Amund211/rlstats/internal/reporting"
	"github.com/Amund211/rlstats/rocketleague"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("rlstats/skillrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbSnapshot struct {
	ID            string    `db:"id"`
	Platform      string    `db:"platform"`
	PlayerID      string    `db:"player_id"`
	UserName      string    `db:"user_name"`
	Playlist      int64     `db:"playlist"`
	Tier          *int64    `db:"tier"`
	TierMax       *int64    `db:"tier_max"`
	Division      *int64    `db:"division"`
	Skill         *int64    `db:"skill"`
	Mu            float64   `db:"mu"`
	Sigma         float64   `db:"sigma"`
	WinStreak     *int64    `db:"win_streak"`
	MatchesPlayed *int64    `db:"matches_played"`
	QueriedAt     time.Time `db:"queried_at"`
}

func snapshotToDB(id string, snapshot *domain.SkillSnapshot) dbSnapshot {
	return dbSnapshot{
		ID:            id,
		Platform:      snapshot.Platform.Code(),
		PlayerID:      snapshot.PlayerID,
		UserName:      snapshot.UserName,
		Playlist:      int64(snapshot.Playlist),
		Tier:          snapshot.Tier,
		TierMax:       snapshot.TierMax,
		Division:      snapshot.Division,
		Skill:         snapshot.Skill,
		Mu:            snapshot.Mu,
		Sigma:         snapshot.Sigma,
		WinStreak:     snapshot.WinStreak,
		MatchesPlayed: snapshot.MatchesPlayed,
		QueriedAt:     snapshot.QueriedAt,
	}
}

func dbToSnapshot(row *dbSnapshot) (domain.SkillSnapshot, error) {
	platform, err := rocketleague.ParsePlatform(row.Platform)
	if err != nil {
		return domain.SkillSnapshot{}, fmt.Errorf("invalid platform for snapshot %s: %w", row.ID, err)
	}

	return domain.SkillSnapshot{
		QueriedAt: row.QueriedAt,

		Platform: platform,
		PlayerID: row.PlayerID,
		UserName: row.UserName,

		Playlist: rocketleague.Playlist(row.Playlist),
		Tier:     row.Tier,
		TierMax:  row.TierMax,
		Division: row.Division,
		Skill:    row.Skill,

		Mu:    row.Mu,
		Sigma: row.Sigma,

		WinStreak:     row.WinStreak,
		MatchesPlayed: row.MatchesPlayed,
	}, nil
}

func (p *Postgres) StoreSnapshots(ctx context.Context, snapshots []domain.SkillSnapshot) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreSnapshots")
	defer span.End()
	span.SetAttributes(attribute.Int("snapshots", len(snapshots)))

	if len(snapshots) == 0 {
		return nil
	}

	rows := make([]dbSnapshot, 0, len(snapshots))
	for i := range snapshots {
		if snapshots[i].Platform.Code() == "" {
			err := fmt.Errorf("unknown platform %s", snapshots[i].Platform.String())
			reporting.Report(ctx, err, map[string]string{
				"playerID": snapshots[i].PlayerID,
			})
			return err
		}

		dbID, err := uuid.NewV7()
		if err != nil {
			err := fmt.Errorf("failed to generate db id: %w", err)
			reporting.Report(ctx, err)
			return err
		}

		rows = append(rows, snapshotToDB(dbID.String(), &snapshots[i]))
	}

	txx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}
	defer txx.Rollback()

	_, err = txx.NamedExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.skill_snapshots
		(id, platform, player_id, user_name, playlist, tier, tier_max, division, skill, mu, sigma, win_streak, matches_played, queried_at)
		VALUES
		(:id, :platform, :player_id, :user_name, :playlist, :tier, :tier_max, :division, :skill, :mu, :sigma, :win_streak, :matches_played, :queried_at)`,
			pq.QuoteIdentifier(p.schema)),
		rows,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert snapshots: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"count": strconv.Itoa(len(rows)),
		})
		return err
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	return nil
}

func (p *Postgres) GetHistory(ctx context.Context, platform rocketleague.Platform, playerID rocketleague.PlayerID, start, end time.Time) ([]domain.SkillSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetHistory")
	defer span.End()

	if end.Before(start) {
		err := fmt.Errorf("%w: end is before start", domain.ErrInvalidInterval)
		reporting.Report(ctx, err, map[string]string{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		})
		return nil, err
	}

	var rows []dbSnapshot
	err := p.db.SelectContext(
		ctx,
		&rows,
		fmt.Sprintf(`SELECT
			id, platform, player_id, user_name, playlist, tier, tier_max, division, skill, mu, sigma, win_streak, matches_played, queried_at
		FROM %s.skill_snapshots
		WHERE
			platform = $1 AND
			player_id = $2 AND
			queried_at BETWEEN $3 AND $4
		ORDER BY queried_at ASC, playlist ASC`,
			pq.QuoteIdentifier(p.schema)),
		platform.Code(),
		playerID,
		start,
		end,
	)
	if err != nil {
		err := fmt.Errorf("failed to select snapshots: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
			"start":    start.Format(time.RFC3339),
			"end":      end.Format(time.RFC3339),
		})
		return nil, err
	}

	history := make([]domain.SkillSnapshot, 0, len(rows))
	for i := range rows {
		snapshot, err := dbToSnapshot(&rows[i])
		if err != nil {
			reporting.Report(ctx, err)
			return nil, err
		}
		history = append(history, snapshot)
	}

	return history, nil
}

// NewPostgresOrStub connects to and migrates the configured database.
// In development it falls back to an in-memory repository when no database is reachable.
func NewPostgresOrStub(ctx context.Context, conf config.Config, logger *slog.Logger) (SkillRepository, error) {
	schema := database.GetSchemaName(!conf.IsProduction())

	logger.InfoContext(ctx, "Initializing database connection")
	db, err := database.NewPostgresDatabaseFromConfig(conf)
	if err != nil {
		if conf.IsDevelopment() {
			logger.WarnContext(ctx, "Failed to connect to database. Falling back to stub repository.", "error", err.Error())
			return NewStub(), nil
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := database.NewDatabaseMigrator(db, logger.With("component", "migrator"))
	if err := migrator.Migrate(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewPostgres(db, schema), nil
}
