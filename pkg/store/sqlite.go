package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/arbortools/arbor/pkg/models"
	"github.com/arbortools/arbor/pkg/tree"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id        TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL DEFAULT '',
	left_id   TEXT NOT NULL DEFAULT '',
	content   TEXT
);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
`

// SQLite is the durable persistence transport. Save acknowledges only after
// the transaction commits, which is the wait semantics drag-drop commits
// rely on.
type SQLite struct {
	db  *sql.DB
	log *logrus.Logger
}

// Open opens (creating if needed) the database at path.
func Open(path string, log *logrus.Logger) (*SQLite, error) {
	if log == nil {
		log = logrus.New()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save writes the structural changes of one move in a single transaction.
func (s *SQLite) Save(ctx context.Context, changes ...tree.Change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()
	for _, ch := range changes {
		res, err := tx.ExecContext(ctx,
			`UPDATE nodes SET parent_id = ?, left_id = ? WHERE id = ?`,
			ch.Attrs.ParentID, ch.Attrs.LeftID, string(ch.ID))
		if err != nil {
			return fmt.Errorf("failed to save node %s: %w", ch.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownNode, ch.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	s.log.WithField("changes", len(changes)).Debug("structural save acknowledged")
	return nil
}

// Insert persists a record and its subtree.
func (s *SQLite) Insert(ctx context.Context, rec models.NodeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertRecord(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec models.NodeRecord) error {
	payload, err := models.EncodeContent(rec.Content)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO nodes (id, parent_id, left_id, content) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.ParentID, rec.LeftID, nullable(payload)); err != nil {
		return fmt.Errorf("failed to insert node %s: %w", rec.ID, err)
	}
	for _, child := range rec.Children {
		if err := insertRecord(ctx, tx, child); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a node and every descendant.
func (s *SQLite) Delete(ctx context.Context, id tree.ID) error {
	res, err := s.db.ExecContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
		)
		DELETE FROM nodes WHERE id IN (SELECT id FROM subtree)`,
		string(id))
	if err != nil {
		return fmt.Errorf("failed to delete subtree %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return nil
}

// LoadTree reads every node and reassembles the nested records, each sibling
// group ordered by its left_id chain. A broken chain is surfaced, not
// papered over.
func (s *SQLite) LoadTree(ctx context.Context) ([]models.NodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, parent_id, left_id, content FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()

	byParent := make(map[string][]models.NodeRecord)
	for rows.Next() {
		var rec models.NodeRecord
		var payload sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ParentID, &rec.LeftID, &payload); err != nil {
			return nil, err
		}
		if payload.Valid {
			rec.Content, err = models.DecodeContent([]byte(payload.String))
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", rec.ID, err)
			}
		}
		byParent[rec.ParentID] = append(byParent[rec.ParentID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assemble(byParent, "")
}

// assemble orders one sibling group by walking its left chain and recurses
// into each member's children.
func assemble(byParent map[string][]models.NodeRecord, parentID string) ([]models.NodeRecord, error) {
	group := byParent[parentID]
	if len(group) == 0 {
		return nil, nil
	}
	next := make(map[string]int, len(group))
	head := -1
	for i, rec := range group {
		if rec.LeftID == "" {
			if head >= 0 {
				return nil, fmt.Errorf("%w under %q: %s and %s are both leftmost",
					tree.ErrBrokenOrder, parentID, group[head].ID, rec.ID)
			}
			head = i
			continue
		}
		if j, dup := next[rec.LeftID]; dup {
			return nil, fmt.Errorf("%w under %q: %s and %s share left sibling %s",
				tree.ErrBrokenOrder, parentID, group[j].ID, rec.ID, rec.LeftID)
		}
		next[rec.LeftID] = i
	}
	if head < 0 {
		return nil, fmt.Errorf("%w under %q: no leftmost node", tree.ErrBrokenOrder, parentID)
	}

	out := make([]models.NodeRecord, 0, len(group))
	for i := head; ; {
		rec := group[i]
		children, err := assemble(byParent, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Children = children
		out = append(out, rec)
		j, ok := next[rec.ID]
		if !ok {
			break
		}
		if len(out) > len(group) {
			return nil, fmt.Errorf("%w under %q: left chain cycles", tree.ErrBrokenOrder, parentID)
		}
		i = j
	}
	if len(out) != len(group) {
		return nil, fmt.Errorf("%w under %q: left chain reaches %d of %d nodes",
			tree.ErrBrokenOrder, parentID, len(out), len(group))
	}
	return out, nil
}

func nullable(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
