// Package ast defines the arena-indexed abstract syntax tree for Pulse.
//
// Items, statements and expressions each live in their own insertion-ordered
// table keyed by ID. IDs are drawn from a single monotonically increasing
// counter shared across all three tables, so an ID is only ever meaningful
// together with the kind of entity it was allocated for.
package ast

// ID is a handle into one of the Ast's three entity tables. IDs are never
// reused within a single Ast.
type ID uint32

// Ast owns every item, statement and expression produced for one
// compilation unit. It is created at the start of a compilation and
// discarded at the end; it is never shared across compilations.
type Ast struct {
	nextID ID

	items      map[ID]*Item
	itemOrder  []ID
	stmts      map[ID]*Stmt
	stmtOrder  []ID
	exprs      map[ID]*Expr
	exprOrder  []ID
}

// New creates an empty arena.
func New() *Ast {
	return &Ast{
		items: make(map[ID]*Item),
		stmts: make(map[ID]*Stmt),
		exprs: make(map[ID]*Expr),
	}
}

func (a *Ast) allocID() ID {
	a.nextID++
	return a.nextID
}

// NewItem allocates a fresh ID, constructs an Item of the given kind, and
// inserts it into the item table.
func (a *Ast) NewItem(kind ItemKind) *Item {
	id := a.allocID()
	item := &Item{ID: id, Kind: kind}
	a.items[id] = item
	a.itemOrder = append(a.itemOrder, id)
	return item
}

// NewStmt allocates a fresh ID, constructs a Stmt of the given kind, and
// inserts it into the statement table.
func (a *Ast) NewStmt(kind StmtKind) *Stmt {
	id := a.allocID()
	stmt := &Stmt{ID: id, Kind: kind}
	a.stmts[id] = stmt
	a.stmtOrder = append(a.stmtOrder, id)
	return stmt
}

// NewExpr allocates a fresh ID, constructs an Expr of the given kind with
// type Unresolved, and inserts it into the expression table.
func (a *Ast) NewExpr(kind ExprKind) *Expr {
	id := a.allocID()
	expr := &Expr{ID: id, Kind: kind, Ty: TypeUnresolved}
	a.exprs[id] = expr
	a.exprOrder = append(a.exprOrder, id)
	return expr
}

// QueryItem returns the item stored under id. The caller must ensure id was
// produced by this arena and refers to an item; violating that precondition
// panics.
func (a *Ast) QueryItem(id ID) *Item {
	item, ok := a.items[id]
	if !ok {
		panic("ast: no item with this ID in this arena")
	}
	return item
}

// QueryStmt returns the statement stored under id. See QueryItem for the
// precondition.
func (a *Ast) QueryStmt(id ID) *Stmt {
	stmt, ok := a.stmts[id]
	if !ok {
		panic("ast: no statement with this ID in this arena")
	}
	return stmt
}

// QueryExpr returns the expression stored under id. See QueryItem for the
// precondition.
func (a *Ast) QueryExpr(id ID) *Expr {
	expr, ok := a.exprs[id]
	if !ok {
		panic("ast: no expression with this ID in this arena")
	}
	return expr
}

// Items returns every top-level item in the order items were parsed.
func (a *Ast) Items() []*Item {
	out := make([]*Item, len(a.itemOrder))
	for i, id := range a.itemOrder {
		out[i] = a.items[id]
	}
	return out
}

// UpdateType sets the resolved type of an expression. Called exactly once
// per expression, by the type analyzer.
func (a *Ast) UpdateType(exprID ID, ty Type) {
	a.QueryExpr(exprID).Ty = ty
}

// SetVariable records the resolved variable ID on a Variable or Assignment
// expression. It panics if exprID does not refer to one of those kinds.
func (a *Ast) SetVariable(exprID ID, varID ID) {
	expr := a.QueryExpr(exprID)
	switch k := expr.Kind.(type) {
	case *VariableExpr:
		k.ResolvedVarID = varID
	case *AssignmentExpr:
		k.ResolvedVarID = varID
	default:
		panic("ast: SetVariable called on a non-variable, non-assignment expression")
	}
}

// SetVarStmt records the resolved variable ID on a Let statement.
func (a *Ast) SetVarStmt(stmtID ID, varID ID) {
	stmt := a.QueryStmt(stmtID)
	let, ok := stmt.Kind.(*LetStmt)
	if !ok {
		panic("ast: SetVarStmt called on a non-let statement")
	}
	let.ResolvedVarID = varID
}
