package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/db"
	"github.com/alexanderramin/aiscribe/internal/domain"
)

// SQLiteRefinementRepo implements RefinementRepo using a SQLite database.
type SQLiteRefinementRepo struct {
	db db.DBTX
}

// NewSQLiteRefinementRepo creates a new SQLiteRefinementRepo.
func NewSQLiteRefinementRepo(conn db.DBTX) *SQLiteRefinementRepo {
	return &SQLiteRefinementRepo{db: conn}
}

const refinementColumns = `id, theme, final_prompt, source, active_modules, created_at`

func (r *SQLiteRefinementRepo) Create(ctx context.Context, ref *domain.Refinement) error {
	modules, err := json.Marshal(ref.ActiveModules)
	if err != nil {
		return fmt.Errorf("encoding active modules: %w", err)
	}
	if ref.ActiveModules == nil {
		modules = []byte("{}")
	}

	query := `INSERT INTO refinements (id, theme, final_prompt, source, active_modules, question_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		ref.ID,
		ref.Theme,
		ref.FinalPrompt,
		string(ref.Source),
		string(modules),
		len(ref.Transcript),
		timeToString(ref.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting refinement: %w", err)
	}

	for i, turn := range ref.Transcript {
		if err := r.insertTurn(ctx, ref.ID, i, turn); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRefinementRepo) insertTurn(ctx context.Context, refinementID string, seq int, turn domain.Turn) error {
	options, err := jsonText(turn.Question.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	examples, err := jsonText(turn.Question.Examples)
	if err != nil {
		return fmt.Errorf("encoding examples: %w", err)
	}

	query := `INSERT INTO refinement_turns (refinement_id, seq, question_id, module, category, question,
		options, examples, adaptation_reason, response, answered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		refinementID,
		seq,
		turn.Question.ID,
		string(turn.Question.Module),
		turn.Question.Category,
		turn.Question.Question,
		options,
		examples,
		turn.Question.AdaptationReason,
		turn.Response,
		timeToString(turn.AnsweredAt),
	)
	if err != nil {
		return fmt.Errorf("inserting turn %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRefinementRepo) GetByID(ctx context.Context, id string) (*domain.Refinement, error) {
	query := `SELECT ` + refinementColumns + ` FROM refinements WHERE id = ?`
	ref, err := scanRefinement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refinement %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadTranscript(ctx, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *SQLiteRefinementRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.Refinement, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("refinement: empty id: %w", ErrNotFound)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM refinements WHERE id LIKE ? || '%' ESCAPE '\' LIMIT 2`,
		escapeLike(strings.ToLower(prefix)),
	)
	if err != nil {
		return nil, fmt.Errorf("resolving refinement prefix: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning refinement id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refinement ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("refinement %s: %w", prefix, ErrNotFound)
	case 1:
		return r.GetByID(ctx, ids[0])
	default:
		return nil, fmt.Errorf("refinement %s: %w", prefix, ErrAmbiguousID)
	}
}

func (r *SQLiteRefinementRepo) List(ctx context.Context, limit int) ([]RefinementSummary, error) {
	query := `SELECT id, theme, final_prompt, source, question_count, created_at
		FROM refinements ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing refinements: %w", err)
	}
	defer rows.Close()

	var out []RefinementSummary
	for rows.Next() {
		var s RefinementSummary
		var source, createdAt string
		if err := rows.Scan(&s.ID, &s.Theme, &s.FinalPrompt, &source, &s.QuestionCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning refinement row: %w", err)
		}
		s.Source = domain.PromptSource(source)
		if s.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating refinements: %w", err)
	}
	return out, nil
}

func (r *SQLiteRefinementRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refinements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting refinement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting refinement: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("refinement %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRefinementRepo) loadTranscript(ctx context.Context, ref *domain.Refinement) error {
	query := `SELECT question_id, module, category, question, options, examples,
		adaptation_reason, response, answered_at
		FROM refinement_turns WHERE refinement_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, ref.ID)
	if err != nil {
		return fmt.Errorf("loading transcript: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return err
		}
		ref.Transcript = append(ref.Transcript, turn)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating transcript: %w", err)
	}
	return nil
}

// scanRefinement scans a refinement header. sql.ErrNoRows is returned as-is
// so callers can map it to ErrNotFound.
func scanRefinement(row rowScanner) (*domain.Refinement, error) {
	var ref domain.Refinement
	var source, modules, createdAt string

	if err := row.Scan(&ref.ID, &ref.Theme, &ref.FinalPrompt, &source, &modules, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning refinement: %w", err)
	}

	ref.Source = domain.PromptSource(source)
	ref.ActiveModules = domain.ActiveModules{}
	if modules != "" {
		if err := json.Unmarshal([]byte(modules), &ref.ActiveModules); err != nil {
			return nil, fmt.Errorf("decoding active_modules: %w", err)
		}
	}

	var err error
	if ref.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &ref, nil
}

func scanTurn(row rowScanner) (domain.Turn, error) {
	var t domain.Turn
	var module, options, examples, answeredAt string

	err := row.Scan(
		&t.Question.ID, &module, &t.Question.Category, &t.Question.Question,
		&options, &examples,
		&t.Question.AdaptationReason, &t.Response, &answeredAt,
	)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("scanning turn: %w", err)
	}

	t.Question.Module = domain.ParseModule(module)
	if t.Question.Options, err = decodeStrings("options", options); err != nil {
		return domain.Turn{}, err
	}
	if t.Question.Examples, err = decodeStrings("examples", examples); err != nil {
		return domain.Turn{}, err
	}
	if t.AnsweredAt, err = parseTime("answered_at", answeredAt); err != nil {
		return domain.Turn{}, err
	}
	return t, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
