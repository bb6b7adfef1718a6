//go:build cgo

package graph

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at
// the given directory path. KuzuDB creates the leaf directory itself for
// new databases. This is what keeps a built graph available across runs.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		display_name STRING,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Symbol(
		id STRING,
		name STRING,
		kind STRING,
		display_name STRING,
		file_path STRING,
		start_line INT64,
		end_line INT64,
		line_count INT64,
		doc STRING,
		params STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEFINED_IN(FROM File TO Symbol)`,
	`CREATE REL TABLE IF NOT EXISTS FILE_IMPORT(FROM File TO File)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Symbol TO Symbol)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddFile inserts a File node.
func (s *KuzuStore) AddFile(_ context.Context, node FileNode) error {
	return s.exec(
		"CREATE (f:File {path: $path, display_name: $dn})",
		map[string]any{
			"path": node.Path,
			"dn":   node.DisplayName,
		},
	)
}

// AddSymbol inserts a Symbol node. The parameter list is stored as a
// comma-joined string.
func (s *KuzuStore) AddSymbol(_ context.Context, node SymbolNode) error {
	return s.exec(
		`CREATE (s:Symbol {
			id: $id,
			name: $name,
			kind: $kind,
			display_name: $dn,
			file_path: $fp,
			start_line: $sl,
			end_line: $el,
			line_count: $lc,
			doc: $doc,
			params: $params
		})`,
		map[string]any{
			"id":     node.ID(),
			"name":   node.Name,
			"kind":   string(node.Kind),
			"dn":     node.DisplayName,
			"fp":     node.FilePath,
			"sl":     int64(node.StartLine),
			"el":     int64(node.EndLine),
			"lc":     int64(node.LineCount()),
			"doc":    node.Doc,
			"params": strings.Join(node.Params, ","),
		},
	)
}

// AddEdge inserts a relationship edge between two nodes.
// The Cypher statement is chosen based on the EdgeKind.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	cypher, err := edgeCypher(edge.Kind)
	if err != nil {
		return err
	}
	return s.exec(cypher, map[string]any{
		"src": edge.SourceID,
		"dst": edge.TargetID,
	})
}

// edgeCypher returns the MATCH-CREATE Cypher for the given edge kind.
func edgeCypher(kind EdgeKind) (string, error) {
	switch kind {
	case EdgeKindDefinedIn:
		return `MATCH (a:File {path: $src}), (b:Symbol {id: $dst})
				CREATE (a)-[:DEFINED_IN]->(b)`, nil
	case EdgeKindFileImport:
		return `MATCH (a:File {path: $src}), (b:File {path: $dst})
				CREATE (a)-[:FILE_IMPORT]->(b)`, nil
	case EdgeKindCalls:
		return `MATCH (a:Symbol {id: $src}), (b:Symbol {id: $dst})
				CREATE (a)-[:CALLS]->(b)`, nil
	default:
		return "", fmt.Errorf("kuzu: unsupported edge kind: %s", kind)
	}
}

// ---------- Read operations ----------

// GetFile retrieves a single File node by path, or returns nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	rows, err := s.query(
		"MATCH (f:File {path: $path}) RETURN f.path, f.display_name",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &FileNode{
		Path:        toString(r[0]),
		DisplayName: toString(r[1]),
	}, nil
}

// symbolColumns is the fixed RETURN column list consumed by rowToSymbol.
const symbolColumns = "s.name, s.kind, s.display_name, s.file_path, s.start_line, s.end_line, s.doc, s.params"

// GetSymbol retrieves a single Symbol node by file path and name, or nil
// if not found.
func (s *KuzuStore) GetSymbol(_ context.Context, filePath, name string) (*SymbolNode, error) {
	rows, err := s.query(
		"MATCH (s:Symbol {id: $id}) RETURN "+symbolColumns,
		map[string]any{"id": SymbolID(filePath, name)},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToSymbol(rows[0]), nil
}

// QuerySymbols returns symbols whose name contains the query string.
func (s *KuzuStore) QuerySymbols(_ context.Context, queryStr string, limit int) ([]SymbolNode, error) {
	rows, err := s.query(
		"MATCH (s:Symbol) WHERE s.name CONTAINS $q RETURN "+symbolColumns+" ORDER BY s.id LIMIT $lim",
		map[string]any{
			"q":   queryStr,
			"lim": int64(limit),
		},
	)
	if err != nil {
		return nil, err
	}
	out := make([]SymbolNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToSymbol(r))
	}
	return out, nil
}

// ---------- Graph traversal ----------

// GetDependencies performs a BFS over FILE_IMPORT edges starting from the
// given file path. It returns one DependencyChain per reachable file.
func (s *KuzuStore) GetDependencies(_ context.Context, nodeID string, dir Direction, maxDepth int) ([]DependencyChain, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{nodeID: true}
	queue := []bfsEntry{{path: []string{nodeID}, depth: 0}}
	var chains []DependencyChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		neighbors, err := s.fileNeighbors(tip, dir)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, DependencyChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// fileNeighbors returns immediate file neighbors along FILE_IMPORT edges.
func (s *KuzuStore) fileNeighbors(path string, dir Direction) ([]string, error) {
	var cypher string
	switch dir {
	case DirectionDownstream:
		cypher = "MATCH (a:File {path: $path})-[:FILE_IMPORT]->(b:File) RETURN b.path"
	case DirectionUpstream:
		cypher = "MATCH (a:File)-[:FILE_IMPORT]->(b:File {path: $path}) RETURN a.path"
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	rows, err := s.query(cypher, map[string]any{"path": path})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// GetCallers returns the functions whose bodies call the given function.
func (s *KuzuStore) GetCallers(_ context.Context, functionID string) ([]SymbolNode, error) {
	rows, err := s.query(
		"MATCH (s:Symbol)-[:CALLS]->(t:Symbol {id: $id}) RETURN "+symbolColumns+" ORDER BY s.id",
		map[string]any{"id": functionID},
	)
	if err != nil {
		return nil, err
	}
	out := make([]SymbolNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToSymbol(r))
	}
	return out, nil
}

// AssessImpact computes the blast radius of the given set of changed
// files. It walks FILE_IMPORT edges upstream to find direct and transitive
// dependents, then computes a risk score from the fan-out ratio.
func (s *KuzuStore) AssessImpact(ctx context.Context, changedFiles []string) (*ImpactResult, error) {
	totalFiles, err := s.countTable("File")
	if err != nil {
		return nil, err
	}

	directSet := map[string]bool{}
	transitiveSet := map[string]bool{}

	for _, f := range changedFiles {
		chains, err := s.GetDependencies(ctx, f, DirectionUpstream, 1)
		if err != nil {
			return nil, err
		}
		for _, c := range chains {
			directSet[c.Nodes[len(c.Nodes)-1]] = true
		}

		allChains, err := s.GetDependencies(ctx, f, DirectionUpstream, 10)
		if err != nil {
			return nil, err
		}
		for _, c := range allChains {
			transitiveSet[c.Nodes[len(c.Nodes)-1]] = true
		}
	}

	changedMap := map[string]bool{}
	for _, f := range changedFiles {
		changedMap[f] = true
	}
	direct := filterKeys(directSet, changedMap)
	transitive := filterKeys(transitiveSet, changedMap)

	risk := 0.0
	if totalFiles > 0 {
		risk = math.Min(1.0, float64(len(transitive))/float64(totalFiles))
	}

	return &ImpactResult{
		DirectlyAffected:     direct,
		TransitivelyAffected: transitive,
		RiskScore:            risk,
	}, nil
}

// ---------- Stats ----------

// Stats returns counts of all node and edge tables.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	files, err := s.countTable("File")
	if err != nil {
		return nil, err
	}
	classes, err := s.countSymbols(NodeKindClass)
	if err != nil {
		return nil, err
	}
	functions, err := s.countSymbols(NodeKindFunction)
	if err != nil {
		return nil, err
	}
	edges, err := s.countEdges()
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		NodeCount:     files + classes + functions,
		EdgeCount:     edges,
		FileCount:     files,
		ClassCount:    classes,
		FunctionCount: functions,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countSymbols returns the number of Symbol rows of the given kind.
func (s *KuzuStore) countSymbols(kind NodeKind) (int, error) {
	rows, err := s.query(
		"MATCH (s:Symbol) WHERE s.kind = $kind RETURN count(s)",
		map[string]any{"kind": string(kind)},
	)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countEdges returns the total number of edges across all relationship
// tables.
func (s *KuzuStore) countEdges() (int, error) {
	tables := []string{"DEFINED_IN", "FILE_IMPORT", "CALLS"}
	total := 0
	for _, t := range tables {
		cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", t)
		rows, err := s.query(cypher, nil)
		if err != nil {
			// Table may not exist yet; treat as zero.
			continue
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			total += toInt(rows[0][0])
		}
	}
	return total, nil
}

// rowToSymbol converts a result row into a SymbolNode.
// Column order matches symbolColumns.
func rowToSymbol(r []any) *SymbolNode {
	var params []string
	if joined := toString(r[7]); joined != "" {
		params = strings.Split(joined, ",")
	}
	return &SymbolNode{
		Name:        toString(r[0]),
		Kind:        NodeKind(toString(r[1])),
		DisplayName: toString(r[2]),
		FilePath:    toString(r[3]),
		StartLine:   toInt(r[4]),
		EndLine:     toInt(r[5]),
		Doc:         toString(r[6]),
		Params:      params,
	}
}

// filterKeys returns keys from set that are not in exclude, as a sorted
// slice.
func filterKeys(set, exclude map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if !exclude[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
