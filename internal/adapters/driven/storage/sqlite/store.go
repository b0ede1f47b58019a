// Package sqlite provides the persistent implementation of the project
// store on modernc.org/sqlite, with embedded migrations and WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/orgdex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/core/ports/driven"
)

// MaxBatchSize bounds one committed write chunk. UpsertMany commits
// each chunk independently; a failing chunk does not roll back chunks
// already committed.
const MaxBatchSize = 500

// Ensure Store implements the interface.
var _ driven.ProjectStore = (*Store)(nil)

// Store is the SQLite-backed project store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.orgdex/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".orgdex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_projects.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores or updates a project. The ON CONFLICT clause updates
// every non-tag column and leaves the tag columns alone, so tags set
// before a re-discovery survive it; tags supplied by the caller are
// written only on first creation.
func (s *Store) Upsert(ctx context.Context, project domain.Project) error {
	return s.upsertTx(ctx, s.db, project)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsertTx(ctx context.Context, db execer, project domain.Project) error {
	languagesJSON, err := json.Marshal(orEmptyMap(project.Languages))
	if err != nil {
		return fmt.Errorf("marshalling languages: %w", err)
	}
	topicsJSON, err := json.Marshal(orEmptySlice(project.Topics))
	if err != nil {
		return fmt.Errorf("marshalling topics: %w", err)
	}
	branchesJSON, err := json.Marshal(orEmptySlice(project.Branches))
	if err != nil {
		return fmt.Errorf("marshalling branches: %w", err)
	}
	pullsJSON, err := json.Marshal(orEmptySlice(project.PullRequests))
	if err != nil {
		return fmt.Errorf("marshalling pull requests: %w", err)
	}
	commitsJSON, err := json.Marshal(orEmptySlice(project.Commits))
	if err != nil {
		return fmt.Errorf("marshalling commits: %w", err)
	}
	var lastRunJSON sql.NullString
	if project.LastRun != nil {
		encoded, err := json.Marshal(project.LastRun)
		if err != nil {
			return fmt.Errorf("marshalling last run: %w", err)
		}
		lastRunJSON = sql.NullString{String: string(encoded), Valid: true}
	}
	customJSON, err := json.Marshal(orEmptySlice(project.Tags.Custom))
	if err != nil {
		return fmt.Errorf("marshalling custom labels: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO projects (
			id, full_name, description, url, homepage, language, languages,
			topics, visibility, default_branch,
			created_at, updated_at, pushed_at, discovered_at, enriched_at,
			stars, forks, open_issues,
			branches, pull_requests, commits, last_run,
			tag_category, tag_status, tag_priority, tag_group, tag_custom
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			description = excluded.description,
			url = excluded.url,
			homepage = excluded.homepage,
			language = excluded.language,
			languages = excluded.languages,
			topics = excluded.topics,
			visibility = excluded.visibility,
			default_branch = excluded.default_branch,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			pushed_at = excluded.pushed_at,
			discovered_at = excluded.discovered_at,
			enriched_at = excluded.enriched_at,
			stars = excluded.stars,
			forks = excluded.forks,
			open_issues = excluded.open_issues,
			branches = excluded.branches,
			pull_requests = excluded.pull_requests,
			commits = excluded.commits,
			last_run = excluded.last_run
	`,
		project.ID, project.FullName, project.Description, project.URL,
		project.Homepage, project.Language, string(languagesJSON),
		string(topicsJSON), project.Visibility, project.DefaultBranch,
		project.CreatedAt, project.UpdatedAt, project.PushedAt,
		project.DiscoveredAt, project.EnrichedAt,
		project.Stars, project.Forks, project.OpenIssues,
		string(branchesJSON), string(pullsJSON), string(commitsJSON), lastRunJSON,
		project.Tags.Category, project.Tags.Status, project.Tags.Priority,
		project.Tags.Group, string(customJSON))
	if err != nil {
		return fmt.Errorf("upserting project %s: %w", project.ID, err)
	}
	return nil
}

// UpsertMany applies Upsert semantics in chunks of MaxBatchSize rows,
// each committed in its own transaction.
func (s *Store) UpsertMany(ctx context.Context, projects []domain.Project) error {
	for start := 0; start < len(projects); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(projects) {
			end = len(projects)
		}
		if err := s.upsertChunk(ctx, projects[start:end]); err != nil {
			return fmt.Errorf("committing chunk at offset %d: %w", start, err)
		}
	}
	return nil
}

func (s *Store) upsertChunk(ctx context.Context, chunk []domain.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, project := range chunk {
		if err := s.upsertTx(ctx, tx, project); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a project by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// List returns projects matching the query. Tag equality filters and the
// updatedAt ordering are pushed into SQL; the free-text substring check
// cannot be filtered server-side and is applied locally to the
// tag-filtered candidate set before pagination.
func (s *Store) List(ctx context.Context, query domain.ListQuery) ([]domain.Project, error) {
	where, args := tagFilterClause(query)

	rows, err := s.db.QueryContext(ctx,
		selectColumns+` FROM projects `+where+` ORDER BY updated_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	matched := make([]domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		if !project.MatchesSearch(query.Search) {
			continue
		}
		matched = append(matched, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	return domain.Page(matched, query.Offset, query.EffectiveLimit()), nil
}

// UpdateTags merges a partial tag patch into an existing project inside
// a transaction, so concurrent patches serialize on the row.
func (s *Store) UpdateTags(ctx context.Context, id string, patch domain.TagPatch) (*domain.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	project.Tags = project.Tags.Apply(patch)

	customJSON, err := json.Marshal(orEmptySlice(project.Tags.Custom))
	if err != nil {
		return nil, fmt.Errorf("marshalling custom labels: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE projects SET
			tag_category = ?, tag_status = ?, tag_priority = ?,
			tag_group = ?, tag_custom = ?
		WHERE id = ?
	`, project.Tags.Category, project.Tags.Status, project.Tags.Priority,
		project.Tags.Group, string(customJSON), id)
	if err != nil {
		return nil, fmt.Errorf("updating tags for %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return project, nil
}

// Stats aggregates counts in a single pass over the table, using the
// JSON1 extension for the snapshot list lengths.
func (s *Store) Stats(ctx context.Context) (*domain.Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag_category, tag_status,
		       json_array_length(pull_requests), json_array_length(commits)
		FROM projects
	`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	stats := domain.Stats{
		ByCategory: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for rows.Next() {
		var category, status string
		var prCount, commitCount int
		if err := rows.Scan(&category, &status, &prCount, &commitCount); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		stats.Total++
		if category == "" {
			category = domain.StatsUncategorized
		}
		stats.ByCategory[category]++
		if status == "" {
			status = domain.StatsUntriaged
		}
		stats.ByStatus[status]++
		stats.OpenPRs += prCount
		stats.RecentCommit += commitCount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats rows: %w", err)
	}
	return &stats, nil
}

// Count returns the number of stored projects.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return count, nil
}

const selectColumns = `
	SELECT id, full_name, description, url, homepage, language, languages,
	       topics, visibility, default_branch,
	       created_at, updated_at, pushed_at, discovered_at, enriched_at,
	       stars, forks, open_issues,
	       branches, pull_requests, commits, last_run,
	       tag_category, tag_status, tag_priority, tag_group, tag_custom`

// tagFilterClause builds the WHERE clause for the query's tag equality
// filters. All supplied filters are ANDed.
func tagFilterClause(query domain.ListQuery) (string, []any) {
	var clauses []string
	var args []any
	if query.Category != "" {
		clauses = append(clauses, "tag_category = ?")
		args = append(args, query.Category)
	}
	if query.Status != "" {
		clauses = append(clauses, "tag_status = ?")
		args = append(args, query.Status)
	}
	if query.Group != "" {
		clauses = append(clauses, "tag_group = ?")
		args = append(args, query.Group)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanProject(row scannable) (*domain.Project, error) {
	var project domain.Project
	var languagesJSON, topicsJSON, branchesJSON, pullsJSON, commitsJSON, customJSON string
	var lastRunJSON sql.NullString
	var createdAt, updatedAt, pushedAt, discoveredAt, enrichedAt sql.NullTime

	err := row.Scan(
		&project.ID, &project.FullName, &project.Description, &project.URL,
		&project.Homepage, &project.Language, &languagesJSON,
		&topicsJSON, &project.Visibility, &project.DefaultBranch,
		&createdAt, &updatedAt, &pushedAt, &discoveredAt, &enrichedAt,
		&project.Stars, &project.Forks, &project.OpenIssues,
		&branchesJSON, &pullsJSON, &commitsJSON, &lastRunJSON,
		&project.Tags.Category, &project.Tags.Status, &project.Tags.Priority,
		&project.Tags.Group, &customJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	if err := json.Unmarshal([]byte(languagesJSON), &project.Languages); err != nil {
		return nil, fmt.Errorf("unmarshalling languages: %w", err)
	}
	if err := json.Unmarshal([]byte(topicsJSON), &project.Topics); err != nil {
		return nil, fmt.Errorf("unmarshalling topics: %w", err)
	}
	if err := json.Unmarshal([]byte(branchesJSON), &project.Branches); err != nil {
		return nil, fmt.Errorf("unmarshalling branches: %w", err)
	}
	if err := json.Unmarshal([]byte(pullsJSON), &project.PullRequests); err != nil {
		return nil, fmt.Errorf("unmarshalling pull requests: %w", err)
	}
	if err := json.Unmarshal([]byte(commitsJSON), &project.Commits); err != nil {
		return nil, fmt.Errorf("unmarshalling commits: %w", err)
	}
	if lastRunJSON.Valid {
		project.LastRun = &domain.ActionsRun{}
		if err := json.Unmarshal([]byte(lastRunJSON.String), project.LastRun); err != nil {
			return nil, fmt.Errorf("unmarshalling last run: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(customJSON), &project.Tags.Custom); err != nil {
		return nil, fmt.Errorf("unmarshalling custom labels: %w", err)
	}

	if createdAt.Valid {
		project.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		project.UpdatedAt = updatedAt.Time
	}
	if pushedAt.Valid {
		project.PushedAt = pushedAt.Time
	}
	if discoveredAt.Valid {
		project.DiscoveredAt = discoveredAt.Time
	}
	if enrichedAt.Valid {
		project.EnrichedAt = enrichedAt.Time
	}

	return &project, nil
}

func orEmptyMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
