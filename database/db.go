package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/setupwatch/shared"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createAlertTableSQL    = "CREATE TABLE IF NOT EXISTS alert (id TEXT PRIMARY KEY, symbol TEXT, exchange TEXT, timeframe TEXT, kind TEXT, direction TEXT, close REAL, winprobability INTEGER, trend TEXT, delivered INTEGER, detail TEXT, createdon INTEGER)"
	createMetadataTableSQL = "CREATE TABLE IF NOT EXISTS metadata (id TEXT PRIMARY KEY, total INTEGER, trades INTEGER, nearsetups INTEGER, delivered INTEGER, failed INTEGER, createdon INTEGER)"
	persistAlertSQL        = "INSERT INTO alert(id, symbol, exchange, timeframe, kind, direction, close, winprobability, trend, delivered, detail, createdon) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)"
	findMetadataSQL        = "SELECT * FROM metadata WHERE id = ?"
	updateMetadataSQL      = "UPDATE metadata SET total = total + 1, trades = trades + ?, nearsetups = nearsetups + ?, delivered = delivered + ?, failed = failed + ? WHERE id = ?"
	persistMetadataSQL     = "INSERT INTO metadata(id, total, trades, nearsetups, delivered, failed, createdon) VALUES(?,?,?,?,?,?,?)"
)

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *DatabaseConfig) Validate() error {
	var errs error

	if cfg.Endpoint == "" {
		errs = errors.Join(errs, errors.New("database endpoint cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the AlertStorer interface.
var _ shared.AlertStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	if cfg.User != "" {
		client.SetBasicAuth(cfg.User, cfg.Pass)
	}

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// execute runs the provided statements in a transaction.
func (db *Database) execute(ctx context.Context, statements rqlitehttp.SQLStatements) error {
	resp, err := db.client.Execute(ctx, statements, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("statement %d: %s", idx, errStr)
	}

	return nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	return db.execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createMetadataTableSQL},
		{SQL: createAlertTableSQL},
	})
}

// generateMetadataID generates deterministic ids for metadata using the
// year, month, week of the month and symbol.
func generateMetadataID(currentTime time.Time, symbol string) string {
	week := (currentTime.Day()-1)/7 + 1

	return fmt.Sprintf("%d-%s-Week-%d-%s", currentTime.Year(), currentTime.Month().String(), week, symbol)
}

// alertParams returns the positional parameters of the provided alert. Absent close
// prices are stored as null.
func alertParams(msg *shared.Message, result shared.DeliveryResult) []any {
	var closePrice any
	if value, ok := msg.Close.Value(); ok {
		closePrice = value
	}

	return []any{msg.ID, msg.Symbol, msg.Exchange, msg.Timeframe.String(), msg.Decision.Kind.String(),
		msg.Decision.Direction.String(), closePrice, msg.WinProbability, msg.Trend.String(),
		result.OK, result.Detail, msg.CreatedOn.Unix()}
}

// metadataDelta returns the metadata counter increments of the provided alert.
func metadataDelta(msg *shared.Message, result shared.DeliveryResult) (trades, nearSetups, delivered, failed int, ok bool) {
	switch msg.Decision.Kind {
	case shared.TradeSetup:
		trades = 1
	case shared.NearSetup:
		nearSetups = 1
	default:
		return 0, 0, 0, 0, false
	}

	if result.OK {
		delivered = 1
	} else {
		failed = 1
	}

	return trades, nearSetups, delivered, failed, true
}

// PersistAlert stores the provided alert and its delivery result.
func (db *Database) PersistAlert(ctx context.Context, msg *shared.Message, result shared.DeliveryResult) error {
	err := db.execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL:              persistAlertSQL,
			PositionalParams: alertParams(msg, result),
		},
	})
	if err != nil {
		return fmt.Errorf("persisting alert %s: %w", msg.ID, err)
	}

	trades, nearSetups, delivered, failed, ok := metadataDelta(msg, result)
	if !ok {
		db.cfg.Logger.Error().Msgf("unexpected alert state for metadata calculations: %s", spew.Sdump(msg))
		return nil
	}

	id := generateMetadataID(msg.CreatedOn, msg.Symbol)
	resp, err := db.client.QuerySingle(ctx, findMetadataSQL, id)
	if err != nil {
		return fmt.Errorf("finding metadata %s: %w", id, err)
	}

	exists := len(resp.GetQueryResultsAssoc()) > 0
	switch {
	case exists:
		err = db.execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              updateMetadataSQL,
				PositionalParams: []any{trades, nearSetups, delivered, failed, id},
			},
		})
		if err != nil {
			return fmt.Errorf("updating metadata %s: %w", id, err)
		}
	default:
		err = db.execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              persistMetadataSQL,
				PositionalParams: []any{id, 1, trades, nearSetups, delivered, failed, msg.CreatedOn.Unix()},
			},
		})
		if err != nil {
			return fmt.Errorf("persisting metadata %s: %w", id, err)
		}
	}

	return nil
}
