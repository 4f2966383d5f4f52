package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const exportSchema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE nodes (
	id        TEXT PRIMARY KEY,
	parent_id TEXT,
	label     TEXT NOT NULL,
	attrs     TEXT,
	is_leaf   INTEGER NOT NULL,
	depth     INTEGER NOT NULL
);
CREATE TABLE node_groups (
	group_key TEXT NOT NULL,
	position  INTEGER NOT NULL,
	node_id   TEXT NOT NULL REFERENCES nodes(id),
	PRIMARY KEY (group_key, position)
);
`

// Export writes index into new SQLite database at path. Database is
// intended for inspection with external tools, nothing in the program reads
// it back.
func Export(ctx context.Context, path string, idx *Index) (err error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("unable to open database %q: %w", path, err)
	}
	defer func() {
		if er := conn.Close(); er != nil && err == nil {
			err = fmt.Errorf("unable to close database %q: %w", path, er)
		}
	}()
	conn.SetInterrupt(ctx.Done())

	if err := sqlitex.ExecuteScript(conn, exportSchema, nil); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}

	defer sqlitex.Save(conn)(&err)

	st := idx.Stats()
	for k, v := range map[string]string{
		"generation_id": st.GenerationID,
		"nodes":         strconv.Itoa(st.Nodes),
		"groups":        strconv.Itoa(st.Groups),
		"max_depth":     strconv.Itoa(st.MaxDepth),
	} {
		if err := sqlitex.Execute(conn, `INSERT INTO meta (key, value) VALUES (?, ?)`,
			&sqlitex.ExecOptions{Args: []any{k, v}}); err != nil {
			return fmt.Errorf("unable to store metadata: %w", err)
		}
	}

	nodeStmt, err := conn.Prepare(`INSERT INTO nodes (id, parent_id, label, attrs, is_leaf, depth) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	groupStmt, err := conn.Prepare(`INSERT INTO node_groups (group_key, position, node_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}

	positions := make(map[string]int64)
	idx.Walk(func(n Node) bool {
		if err != nil {
			return false
		}
		err = exportNode(nodeStmt, groupStmt, n, positions)
		return err == nil
	})
	return err
}

func exportNode(nodeStmt, groupStmt *sqlite.Stmt, n Node, positions map[string]int64) error {
	attrs, err := json.Marshal(n.Attrs)
	if err != nil {
		return fmt.Errorf("unable to marshal attributes of node %q: %w", n.ID, err)
	}

	nodeStmt.BindText(1, n.ID)
	if n.IsRoot() {
		nodeStmt.BindNull(2)
	} else {
		nodeStmt.BindText(2, n.ParentID)
	}
	nodeStmt.BindText(3, n.Label)
	nodeStmt.BindText(4, string(attrs))
	nodeStmt.BindBool(5, n.IsLeaf)
	nodeStmt.BindInt64(6, int64(n.Depth))
	if _, err := nodeStmt.Step(); err != nil {
		return fmt.Errorf("unable to store node %q: %w", n.ID, err)
	}
	if err := nodeStmt.Reset(); err != nil {
		return err
	}

	key := n.GroupKey()
	groupStmt.BindText(1, key)
	groupStmt.BindInt64(2, positions[key])
	groupStmt.BindText(3, n.ID)
	if _, err := groupStmt.Step(); err != nil {
		return fmt.Errorf("unable to store position of node %q: %w", n.ID, err)
	}
	positions[key]++
	return groupStmt.Reset()
}
