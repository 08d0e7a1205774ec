package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/mattn/go-sqlite3"

	"github.com/dedocracia/dedocracia/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS voters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fingerprint_id TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ballots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			voter_id INTEGER NOT NULL UNIQUE,
			candidate_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (voter_id) REFERENCES voters(id),
			FOREIGN KEY (candidate_id) REFERENCES candidates(id)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ballots_candidate ON ballots(candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voters_fingerprint ON voters(fingerprint_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Insert default settings if not exists
	defaultSettings := map[string]string{
		"election_state": string(models.StateSetup),
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// translateConstraint maps sqlite constraint violations onto repository errors.
func translateConstraint(err error) error {
	var sqlErr sqlite3.Error
	if !stderrors.As(err, &sqlErr) {
		return err
	}
	switch sqlErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrDuplicate
	case sqlite3.ErrConstraintForeignKey:
		return ErrForeignKey
	}
	return err
}

// ==================== Candidate Methods ====================

// ListCandidates returns all candidates ordered by id
func (r *Repository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, '') FROM candidates ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns a single candidate by id
func (r *Repository) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, '') FROM candidates WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCandidate creates a new candidate
func (r *Repository) CreateCandidate(ctx context.Context, name, description string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (name, description) VALUES (?, ?)
	`, name, description)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// DeleteCandidate removes a candidate by id
func (r *Repository) DeleteCandidate(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCandidates returns the number of registered candidates
func (r *Repository) CountCandidates(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&count)
	return count, err
}

// ==================== Voter Methods ====================

// ListVoters returns all voters ordered by id
func (r *Repository) ListVoters(ctx context.Context) ([]models.Voter, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, fingerprint_id FROM voters ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var voters []models.Voter
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.FingerprintID); err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// GetVoter returns a voter by id
func (r *Repository) GetVoter(ctx context.Context, id int) (*models.Voter, error) {
	var v models.Voter
	err := r.db.QueryRowContext(ctx, `
		SELECT id, fingerprint_id FROM voters WHERE id = ?
	`, id).Scan(&v.ID, &v.FingerprintID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVoterByFingerprint returns a voter by fingerprint id
func (r *Repository) GetVoterByFingerprint(ctx context.Context, fingerprintID string) (*models.Voter, error) {
	var v models.Voter
	err := r.db.QueryRowContext(ctx, `
		SELECT id, fingerprint_id FROM voters WHERE fingerprint_id = ?
	`, fingerprintID).Scan(&v.ID, &v.FingerprintID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVoter registers a voter for a fingerprint id. The UNIQUE constraint on
// fingerprint_id makes this idempotent: a concurrent duplicate registration is
// absorbed by INSERT OR IGNORE and both callers read back the same row.
func (r *Repository) CreateVoter(ctx context.Context, fingerprintID string) (*models.Voter, bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO voters (fingerprint_id) VALUES (?)
	`, fingerprintID)
	if err != nil {
		return nil, false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	created := affected > 0

	voter, err := r.GetVoterByFingerprint(ctx, fingerprintID)
	if err != nil {
		return nil, false, err
	}
	return voter, created, nil
}

// CountVoters returns the number of registered voters
func (r *Repository) CountVoters(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&count)
	return count, err
}

// ==================== Ballot Methods ====================

// CreateBallot records a ballot. The UNIQUE constraint on voter_id is the
// one-vote-per-voter guarantee: the losing side of a concurrent cast gets
// ErrDuplicate here rather than a second row.
func (r *Repository) CreateBallot(ctx context.Context, voterID, candidateID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO ballots (voter_id, candidate_id) VALUES (?, ?)
	`, voterID, candidateID)
	if err != nil {
		return 0, translateConstraint(err)
	}
	return result.LastInsertId()
}

// HasBallot reports whether the voter already has a recorded ballot
func (r *Repository) HasBallot(ctx context.Context, voterID int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballots WHERE voter_id = ?
	`, voterID).Scan(&count)
	return count > 0, err
}

// ListBallots returns all ballots ordered by id
func (r *Repository) ListBallots(ctx context.Context) ([]models.Ballot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, voter_id, candidate_id FROM ballots ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ballots []models.Ballot
	for rows.Next() {
		var b models.Ballot
		if err := rows.Scan(&b.ID, &b.VoterID, &b.CandidateID); err != nil {
			return nil, err
		}
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

// CountBallots returns the number of recorded ballots. Since each voter holds
// at most one ballot this is also the count of distinct voters who voted.
func (r *Repository) CountBallots(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballots`).Scan(&count)
	return count, err
}

// GetVoteCounts returns the per-candidate ballot counts, zero-vote candidates
// included, ordered by vote count descending then candidate name ascending.
func (r *Repository) GetVoteCounts(ctx context.Context) ([]models.CandidateCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(b.id) AS votes
		FROM candidates c
		LEFT JOIN ballots b ON c.id = b.candidate_id
		GROUP BY c.id, c.name
		ORDER BY votes DESC, c.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.CandidateCount
	for rows.Next() {
		var cc models.CandidateCount
		if err := rows.Scan(&cc.CandidateID, &cc.Name, &cc.Votes); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// ==================== Settings Methods ====================

// GetSetting returns a setting value by key
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting stores a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// ==================== Admin Methods ====================

// ClearElectionData removes all election data, restarts identity counters
// and writes the given setting. Runs in a single transaction so a failed
// reset leaves everything intact; the setting rides along so the data and
// the persisted state can never disagree after a partial failure.
func (r *Repository) ClearElectionData(ctx context.Context, settingKey, settingValue string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM ballots`,
		`DELETE FROM voters`,
		`DELETE FROM candidates`,
		`DELETE FROM sqlite_sequence WHERE name IN ('ballots', 'voters', 'candidates')`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingKey, settingValue); err != nil {
		return err
	}

	return tx.Commit()
}
