package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/iconforge/iconforge/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS icon_jobs (
		id TEXT PRIMARY KEY,
		art_style TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- prompt_memory caches refined prompts so repeat requests skip refinement
	CREATE TABLE IF NOT EXISTS prompt_memory (
		id TEXT PRIMARY KEY,
		art_style TEXT NOT NULL,
		description TEXT NOT NULL,
		prompt TEXT NOT NULL,
		provider TEXT,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(art_style, description)
	);

	CREATE TABLE IF NOT EXISTS icon_history (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		refiner TEXT,
		synthesizer TEXT,
		refined_prompt TEXT NOT NULL,
		image_path TEXT,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (job_id) REFERENCES icon_jobs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_prompt_lookup ON prompt_memory(art_style, description);
	CREATE INDEX IF NOT EXISTS idx_history_job ON icon_history(job_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveJob(ctx context.Context, job internal.IconJob) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO icon_jobs (id, art_style, description, created_at) VALUES (?, ?, ?, ?)`,
		job.ID, job.ArtStyle, job.Description, job.Timestamp)
	return err
}

// GetCachedPrompt returns the remembered refined prompt for a style and
// description, bumping its usage counter on a hit.
func (s *Store) GetCachedPrompt(ctx context.Context, artStyle, description string) (string, bool, error) {
	var prompt string
	var invalidated bool

	err := s.db.QueryRowContext(ctx,
		`SELECT prompt, invalidated FROM prompt_memory WHERE art_style = ? AND description = ?`,
		normalizeText(artStyle), normalizeText(description)).Scan(&prompt, &invalidated)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if invalidated {
		return "", false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE prompt_memory SET usage_count = usage_count + 1, last_used = ? WHERE art_style = ? AND description = ?`,
		time.Now(), normalizeText(artStyle), normalizeText(description))

	return prompt, true, err
}

// SavePrompt stores or replaces the refined prompt for a style and description.
func (s *Store) SavePrompt(ctx context.Context, artStyle, description, prompt, provider string) error {
	id := fmt.Sprintf("pm_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO prompt_memory (id, art_style, description, prompt, provider, usage_count, invalidated, last_used, created_at) VALUES (?, ?, ?, ?, ?, 1, FALSE, ?, ?)`,
		id, normalizeText(artStyle), normalizeText(description), prompt, provider, time.Now(), time.Now())
	return err
}

// SaveIconResult records one finished (or failed) icon for a job.
func (s *Store) SaveIconResult(ctx context.Context, jobID, refinerName, synthesizerName, refinedPrompt, imagePath string, latencyMs int, errMsg string) error {
	id := fmt.Sprintf("%s_%d", jobID, time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO icon_history (id, job_id, refiner, synthesizer, refined_prompt, image_path, latency_ms, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, jobID, refinerName, synthesizerName, refinedPrompt, imagePath, latencyMs, errMsg)
	return err
}

// MemoryEntry is a row from the prompt_memory table.
type MemoryEntry struct {
	ID          string
	ArtStyle    string
	Description string
	Prompt      string
	Provider    string
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// CacheStats summarises prompt memory usage.
type CacheStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
}

func (s *Store) InvalidatePrompt(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE prompt_memory SET invalidated = TRUE WHERE id = ?`, id)
	return err
}

// DeletePrompt permanently removes a prompt memory entry by ID.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM prompt_memory WHERE id = ?`, id)
	return err
}

// ClearPrompts removes all prompt memory entries.
func (s *Store) ClearPrompts(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompt_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListPrompts returns all prompt memory entries ordered by most recently used.
func (s *Store) ListPrompts(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, art_style, description, prompt, provider, usage_count, invalidated, last_used FROM prompt_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.ArtStyle, &e.Description, &e.Prompt, &e.Provider, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the prompt memory.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM prompt_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// HistoryEntry is a row from the icon_history table joined with its job.
type HistoryEntry struct {
	ID            string
	ArtStyle      string
	Description   string
	Refiner       string
	Synthesizer   string
	RefinedPrompt string
	ImagePath     string
	LatencyMs     int
	Error         string
	CreatedAt     time.Time
}

// ListHistory returns the most recent icon generations, newest first.
func (s *Store) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT h.id, j.art_style, j.description, h.refiner, h.synthesizer, h.refined_prompt, h.image_path, h.latency_ms, h.error, h.created_at
		 FROM icon_history h
		 JOIN icon_jobs j ON j.id = h.job_id
		 ORDER BY h.created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.ArtStyle, &e.Description, &e.Refiner, &e.Synthesizer, &e.RefinedPrompt, &e.ImagePath, &e.LatencyMs, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PromptMemory is the view of the store the orchestrator uses as its cache.
type PromptMemory struct {
	s *Store
}

// PromptMemory returns the prompt cache view of this store.
func (s *Store) PromptMemory() *PromptMemory {
	return &PromptMemory{s: s}
}

func (m *PromptMemory) Get(ctx context.Context, artStyle, description string) (string, bool, error) {
	return m.s.GetCachedPrompt(ctx, artStyle, description)
}

func (m *PromptMemory) Save(ctx context.Context, artStyle, description, prompt, provider string) error {
	return m.s.SavePrompt(ctx, artStyle, description, prompt, provider)
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
