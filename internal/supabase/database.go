package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"appforge-backend/internal/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrDomainTaken         = errors.New("Domain already in use")
	ErrBuildNotRunning     = errors.New("build is not running")
)

const uniqueViolation = "23505"

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func (d *DatabaseClient) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// Users

// EnsureUser creates the ledger row for an authenticated user on first use.
func (d *DatabaseClient) EnsureUser(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, userID, email)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := d.db.QueryRowContext(ctx, `
		SELECT id, email, plan_type, tokens_remaining, tokens_used
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.PlanType, &user.TokensRemaining, &user.TokensUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Projects

const projectColumns = `
	id, user_id, name, description, original_prompt, expanded_description, todo_list,
	app_type, complexity, tech_stack, status, tokens_used, dependencies, env_variables,
	preview_url, production_url, vercel_project_id, custom_domain, custom_domain_verified,
	last_build_at, created_at, updated_at`

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	var todoJSON, depsJSON []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.OriginalPrompt, &p.ExpandedDescription, &todoJSON,
		&p.AppType, &p.Complexity, pq.Array(&p.TechStack), &p.Status, &p.TokensUsed, &depsJSON, pq.Array(&p.EnvVariables),
		&p.PreviewURL, &p.ProductionURL, &p.VercelProjectID, &p.CustomDomain, &p.CustomDomainVerified,
		&p.LastBuildAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(todoJSON) > 0 {
		if err := json.Unmarshal(todoJSON, &p.TodoList); err != nil {
			return nil, fmt.Errorf("failed to decode todo list: %w", err)
		}
	}
	if len(depsJSON) > 0 {
		if err := json.Unmarshal(depsJSON, &p.Dependencies); err != nil {
			return nil, fmt.Errorf("failed to decode dependencies: %w", err)
		}
	}
	return &p, nil
}

func (d *DatabaseClient) CreateProject(ctx context.Context, p *models.Project) error {
	todoJSON, err := json.Marshal(p.TodoList)
	if err != nil {
		return fmt.Errorf("failed to encode todo list: %w", err)
	}
	if p.TodoList == nil {
		todoJSON = []byte("[]")
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}

	err = d.db.QueryRowContext(ctx, `
		INSERT INTO projects (user_id, name, description, original_prompt, expanded_description,
			todo_list, app_type, complexity, tech_stack, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Name, p.Description, p.OriginalPrompt, p.ExpandedDescription,
		todoJSON, p.AppType, p.Complexity, pq.Array(p.TechStack), models.ProjectStatusDraft,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	p.Status = models.ProjectStatusDraft
	return nil
}

// GetProject loads a project scoped to its owner.
func (d *DatabaseClient) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+projectColumns+`
		FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (d *DatabaseClient) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+projectColumns+`
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (d *DatabaseClient) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := d.db.ExecContext(ctx, `
		DELETE FROM projects
		WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Builds

const buildColumns = `
	id, project_id, build_number, status, ai_model_used, tokens_consumed,
	build_time_seconds, error_message, started_at, completed_at, created_at`

func scanBuild(row scanner) (*models.Build, error) {
	var b models.Build
	err := row.Scan(
		&b.ID, &b.ProjectID, &b.BuildNumber, &b.Status, &b.AIModelUsed, &b.TokensConsumed,
		&b.BuildTimeSeconds, &b.ErrorMessage, &b.StartedAt, &b.CompletedAt, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// StartBuild moves the project to building and opens a running Build row
// with the next build number.
func (d *DatabaseClient) StartBuild(ctx context.Context, projectID uuid.UUID, aiModel string) (*models.Build, error) {
	var build *models.Build
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects SET status = $2 WHERE id = $1
		`, projectID, models.ProjectStatusBuilding); err != nil {
			return fmt.Errorf("failed to mark project building: %w", err)
		}

		row := tx.QueryRowContext(ctx, `
			INSERT INTO builds (project_id, build_number, status, ai_model_used, started_at)
			SELECT $1, COALESCE(MAX(build_number), 0) + 1, $2, $3, NOW()
			FROM builds WHERE project_id = $1
			RETURNING `+buildColumns,
			projectID, models.BuildStatusRunning, aiModel)
		b, err := scanBuild(row)
		if err != nil {
			return fmt.Errorf("failed to create build: %w", err)
		}
		build = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return build, nil
}

// CompleteBuild applies a successful build atomically: file set replacement,
// conditional credit debit, usage log, optional chat rows, then the Build and
// Project terminal writes. It returns the user's remaining credits. When the
// debit finds too few credits nothing is written and ErrInsufficientCredits
// is returned.
func (d *DatabaseClient) CompleteBuild(ctx context.Context, c models.BuildCompletion) (int, error) {
	depsJSON, err := json.Marshal(c.Result.Dependencies)
	if err != nil {
		return 0, fmt.Errorf("failed to encode dependencies: %w", err)
	}

	var remaining int
	err = d.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceFiles(ctx, tx, c.ProjectID, c.Result.Files); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			UPDATE users
			SET tokens_remaining = tokens_remaining - $2,
				tokens_used = tokens_used + $2
			WHERE id = $1 AND tokens_remaining >= $2
			RETURNING tokens_remaining
		`, c.UserID, c.Credits).Scan(&remaining)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInsufficientCredits
		}
		if err != nil {
			return fmt.Errorf("failed to debit credits: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO usage_logs (user_id, project_id, action_type, tokens_used, ai_model)
			VALUES ($1, $2, $3, $4, $5)
		`, c.UserID, c.ProjectID, c.Action, c.Credits, c.AIModel); err != nil {
			return fmt.Errorf("failed to write usage log: %w", err)
		}

		if m := c.AssistantMessage; m != nil {
			if err := insertChatMessage(ctx, tx, m); err != nil {
				return err
			}
		}

		if it := c.Iteration; it != nil {
			changesJSON, err := json.Marshal(it.ChangesMade)
			if err != nil {
				return fmt.Errorf("failed to encode iteration changes: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO iterations (project_id, user_prompt, ai_response, changes_made, tokens_used, status)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, it.ProjectID, it.UserPrompt, it.AIResponse, changesJSON, it.TokensUsed, it.Status); err != nil {
				return fmt.Errorf("failed to write iteration: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE builds
			SET status = $2, tokens_consumed = $3, build_time_seconds = $4, completed_at = NOW()
			WHERE id = $1 AND status = $5
		`, c.BuildID, models.BuildStatusSuccess, c.Credits, c.BuildTimeSeconds, models.BuildStatusRunning)
		if err != nil {
			return fmt.Errorf("failed to complete build: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return ErrBuildNotRunning
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET status = $2, dependencies = $3, env_variables = $4,
				tokens_used = tokens_used + $5, last_build_at = NOW()
			WHERE id = $1
		`, c.ProjectID, models.ProjectStatusReady, depsJSON, pq.Array(c.Result.EnvVariables), c.Credits); err != nil {
			return fmt.Errorf("failed to mark project ready: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// FailBuild records a failed build and marks the project failed.
func (d *DatabaseClient) FailBuild(ctx context.Context, projectID, buildID uuid.UUID, errorMessage string, buildTimeSeconds int) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE builds
			SET status = $2, error_message = $3, build_time_seconds = $4, completed_at = NOW()
			WHERE id = $1 AND status = $5
		`, buildID, models.BuildStatusFailed, errorMessage, buildTimeSeconds, models.BuildStatusRunning); err != nil {
			return fmt.Errorf("failed to fail build: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects SET status = $2 WHERE id = $1
		`, projectID, models.ProjectStatusFailed); err != nil {
			return fmt.Errorf("failed to mark project failed: %w", err)
		}
		return nil
	})
}

func (d *DatabaseClient) GetLatestBuild(ctx context.Context, projectID uuid.UUID) (*models.Build, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+buildColumns+`
		FROM builds
		WHERE project_id = $1
		ORDER BY build_number DESC
		LIMIT 1
	`, projectID)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest build: %w", err)
	}
	return b, nil
}

func (d *DatabaseClient) ListBuilds(ctx context.Context, projectID uuid.UUID) ([]models.Build, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+buildColumns+`
		FROM builds
		WHERE project_id = $1
		ORDER BY build_number DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	builds := []models.Build{}
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

// Files

func replaceFiles(ctx context.Context, tx *sql.Tx, projectID uuid.UUID, files []models.GeneratedFile) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_files WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO project_files (project_id, file_path, file_content, file_type)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, projectID, f.Path, f.Content, f.Type); err != nil {
			return fmt.Errorf("failed to insert file %s: %w", f.Path, err)
		}
	}
	return nil
}

func (d *DatabaseClient) ListFiles(ctx context.Context, projectID uuid.UUID) ([]models.ProjectFile, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, project_id, file_path, file_content, file_type, created_at
		FROM project_files
		WHERE project_id = $1
		ORDER BY file_path
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []models.ProjectFile{}
	for rows.Next() {
		var f models.ProjectFile
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.FilePath, &f.FileContent, &f.FileType, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Chat

func insertChatMessage(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}, m *models.ChatMessage) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO chat_messages (project_id, user_id, role, content, tokens_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.ProjectID, m.UserID, m.Role, m.Content, m.TokensUsed).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

func (d *DatabaseClient) AddChatMessage(ctx context.Context, m *models.ChatMessage) error {
	return insertChatMessage(ctx, d.db, m)
}

func scanChatMessages(rows *sql.Rows) ([]models.ChatMessage, error) {
	defer rows.Close()
	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.Content, &m.TokensUsed, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// ListRecentChatMessages returns the newest limit messages, oldest first.
func (d *DatabaseClient) ListRecentChatMessages(ctx context.Context, projectID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, project_id, user_id, role, content, tokens_used, created_at
		FROM (
			SELECT id, project_id, user_id, role, content, tokens_used, created_at
			FROM chat_messages
			WHERE project_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return scanChatMessages(rows)
}

func (d *DatabaseClient) ListChatMessages(ctx context.Context, projectID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, project_id, user_id, role, content, tokens_used, created_at
		FROM chat_messages
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return scanChatMessages(rows)
}

// Deployments

func (d *DatabaseClient) MarkDeployed(ctx context.Context, rec models.DeploymentRecord) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET status = $2, preview_url = $3, production_url = $4, vercel_project_id = $5
			WHERE id = $1
		`, rec.ProjectID, models.ProjectStatusDeployed, rec.PreviewURL, rec.ProductionURL, rec.VercelProjectID); err != nil {
			return fmt.Errorf("failed to mark project deployed: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deployments (project_id, build_id, environment, url, deploy_status)
			VALUES ($1, $2, $3, $4, 'success')
		`, rec.ProjectID, rec.BuildID, rec.Environment, rec.PreviewURL); err != nil {
			return fmt.Errorf("failed to record deployment: %w", err)
		}
		return nil
	})
}

// Domains

const domainColumns = `
	id, project_id, domain, verification_token, verified, status, dns_records, verified_at, created_at`

func scanDomain(row scanner) (*models.CustomDomain, error) {
	var dom models.CustomDomain
	var dnsJSON []byte
	err := row.Scan(&dom.ID, &dom.ProjectID, &dom.Domain, &dom.VerificationToken, &dom.Verified,
		&dom.Status, &dnsJSON, &dom.VerifiedAt, &dom.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(dnsJSON) > 0 {
		if err := json.Unmarshal(dnsJSON, &dom.DNSRecords); err != nil {
			return nil, fmt.Errorf("failed to decode dns records: %w", err)
		}
	}
	return &dom, nil
}

func (d *DatabaseClient) ListDomains(ctx context.Context, projectID uuid.UUID) ([]models.CustomDomain, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+domainColumns+`
		FROM custom_domains
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	domains := []models.CustomDomain{}
	for rows.Next() {
		dom, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, *dom)
	}
	return domains, rows.Err()
}

func (d *DatabaseClient) GetDomain(ctx context.Context, domainID uuid.UUID) (*models.CustomDomain, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+domainColumns+`
		FROM custom_domains
		WHERE id = $1
	`, domainID)
	dom, err := scanDomain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return dom, nil
}

func (d *DatabaseClient) DomainExists(ctx context.Context, domain string) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM custom_domains WHERE domain = $1)
	`, domain).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check domain: %w", err)
	}
	return exists, nil
}

func (d *DatabaseClient) CreateDomain(ctx context.Context, dom *models.CustomDomain) error {
	dnsJSON, err := json.Marshal(dom.DNSRecords)
	if err != nil {
		return fmt.Errorf("failed to encode dns records: %w", err)
	}
	if dom.DNSRecords == nil {
		dnsJSON = []byte("{}")
	}

	err = d.db.QueryRowContext(ctx, `
		INSERT INTO custom_domains (project_id, domain, verification_token, verified, status, dns_records)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, dom.ProjectID, dom.Domain, dom.VerificationToken, dom.Verified, dom.Status, dnsJSON).Scan(&dom.ID, &dom.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDomainTaken
		}
		return fmt.Errorf("failed to create domain: %w", err)
	}
	return nil
}

func (d *DatabaseClient) UpdateDomainStatus(ctx context.Context, domainID uuid.UUID, status models.DomainStatus) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE custom_domains SET status = $2 WHERE id = $1
	`, domainID, status)
	if err != nil {
		return fmt.Errorf("failed to update domain status: %w", err)
	}
	return nil
}

// MarkDomainVerified activates the domain and makes it the project's custom domain.
func (d *DatabaseClient) MarkDomainVerified(ctx context.Context, dom *models.CustomDomain) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE custom_domains
			SET verified = TRUE, status = $2, verified_at = NOW()
			WHERE id = $1
		`, dom.ID, models.DomainStatusActive); err != nil {
			return fmt.Errorf("failed to verify domain: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET custom_domain = $2, custom_domain_verified = TRUE
			WHERE id = $1
		`, dom.ProjectID, dom.Domain); err != nil {
			return fmt.Errorf("failed to set project custom domain: %w", err)
		}
		return nil
	})
}

// DeleteDomain removes the domain row and clears it from the project when it
// is the project's current custom domain.
func (d *DatabaseClient) DeleteDomain(ctx context.Context, dom *models.CustomDomain) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM custom_domains WHERE id = $1`, dom.ID); err != nil {
			return fmt.Errorf("failed to delete domain: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET custom_domain = NULL, custom_domain_verified = FALSE
			WHERE id = $1 AND custom_domain = $2
		`, dom.ProjectID, dom.Domain); err != nil {
			return fmt.Errorf("failed to clear project custom domain: %w", err)
		}
		return nil
	})
}
