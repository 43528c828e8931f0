// Package logs stores the results of finished games in sqlite.
package logs

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3" // repository assumes sqlite

	"github.com/nelhage/connectn/connect"
	"github.com/nelhage/connectn/notation"
)

type Repository struct {
	db *sqlx.DB

	insert *sqlx.NamedStmt
}

type Game struct {
	ID        string    `db:"id"`
	Timestamp time.Time `db:"time"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	Connect   int       `db:"connect"`
	Player1   string    `db:"player1"`
	Player2   string    `db:"player2"`
	Result    string    `db:"result"`
	Winner    string    `db:"winner"`
	Moves     int       `db:"moves"`
	Record    string    `db:"record"`
}

// Standing is one player's tally across every logged game.
type Standing struct {
	Player string `db:"player"`
	Wins   int    `db:"wins"`
	Losses int    `db:"losses"`
	Ties   int    `db:"ties"`
}

// Winner values. player1 is the record's Player1 tag, who plays as
// player 0.
const (
	WinnerPlayer1 = "player1"
	WinnerPlayer2 = "player2"
	WinnerNone    = "tie"
)

func Open(db string) (*Repository, error) {
	sql, err := sqlx.Open("sqlite3", db)
	if err != nil {
		return nil, err
	}
	_, err = sql.Exec(createGameTable)
	if err != nil {
		sql.Close()
		return nil, errors.Wrap(err, "create game table")
	}
	_, err = sql.Exec(createPlayerView)
	if err != nil {
		sql.Close()
		return nil, errors.Wrap(err, "create player_games view")
	}

	repo := &Repository{db: sql}
	repo.insert, err = sql.PrepareNamed(insertStmt)
	if err != nil {
		repo.Close()
		return nil, errors.Wrap(err, "prepare")
	}
	return repo, nil
}

// FromRecord builds a log entry for a finished game.
func FromRecord(rec *notation.Record) (*Game, error) {
	cfg, err := rec.Config()
	if err != nil {
		return nil, err
	}
	p, _, err := rec.Replay()
	if err != nil {
		return nil, err
	}
	over, winner := p.GameOver()
	if !over {
		return nil, errors.New("game is not over")
	}
	g := &Game{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Connect:   cfg.Connect,
		Player1:   rec.FindTag("Player1"),
		Player2:   rec.FindTag("Player2"),
		Result:    rec.FindTag("Result"),
		Moves:     len(rec.Moves()),
		Record:    rec.Render(),
	}
	switch winner {
	case connect.Player0:
		g.Winner = WinnerPlayer1
	case connect.Player1:
		g.Winner = WinnerPlayer2
	default:
		g.Winner = WinnerNone
	}
	return g, nil
}

func (r *Repository) InsertGame(g *Game) error {
	return r.insertGame(r.insert, g)
}

func (r *Repository) insertGame(stmt *sqlx.NamedStmt, g *Game) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	_, err := stmt.Exec(g)
	return err
}

func (r *Repository) InsertGames(gs []*Game) error {
	txn, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	stmt := txn.NamedStmt(r.insert)
	for _, g := range gs {
		if e := r.insertGame(stmt, g); e != nil {
			return e
		}
	}
	return txn.Commit()
}

// Games returns up to limit games, newest first.
func (r *Repository) Games(limit int) ([]Game, error) {
	var out []Game
	if err := r.db.Select(&out, selectGames, limit); err != nil {
		return nil, errors.Wrap(err, "select games")
	}
	return out, nil
}

func (r *Repository) Game(id string) (*Game, error) {
	var g Game
	if err := r.db.Get(&g, selectGame, id); err != nil {
		return nil, errors.Wrapf(err, "game %s", id)
	}
	return &g, nil
}

func (r *Repository) Standings() ([]Standing, error) {
	var out []Standing
	if err := r.db.Select(&out, selectStandings); err != nil {
		return nil, errors.Wrap(err, "select standings")
	}
	return out, nil
}

func (r *Repository) Close() {
	r.db.Close()
}
