//go:build cgo

package complexity

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// decisionNodeTypes contribute +1 each to a function's cyclomatic
// complexity. boolean_operator nodes nest, so an N-operand boolean chain
// yields N-1 nodes; for_in_clause counts one per comprehension for-clause.
var decisionNodeTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"while_statement":        true,
	"for_statement":          true,
	"except_clause":          true,
	"with_statement":         true,
	"assert_statement":       true,
	"for_in_clause":          true,
	"conditional_expression": true,
	"boolean_operator":       true,
}

// branchNodeTypes are counted once each for the branch metric. elif
// clauses are handled separately: each counts twice, preserving the
// counting behaviour the rule tables were calibrated against.
var branchNodeTypes = map[string]bool{
	"if_statement":    true,
	"while_statement": true,
	"for_statement":   true,
	"try_statement":   true,
	"except_clause":   true,
	"match_statement": true,
}

// parsePythonStructure parses Python source with tree-sitter and computes
// the AST-derived metrics. A tree containing ERROR nodes is reported as a
// parse failure; the caller keeps its text-derived metrics and records the
// error.
func parsePythonStructure(ctx context.Context, source []byte) (pythonStructure, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return pythonStructure{}, fmt.Errorf("parse error: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return pythonStructure{}, fmt.Errorf("syntax error")
	}

	var st pythonStructure

	functions := findNodes(root, "function_definition")
	st.FunctionCount = len(functions)

	for _, fn := range functions {
		cc := cyclomaticComplexity(fn)
		st.TotalCyclomatic += cc
		if cc > st.MaxCyclomatic {
			st.MaxCyclomatic = cc
		}
	}
	if st.FunctionCount > 0 {
		st.AvgCyclomatic = float64(st.TotalCyclomatic) / float64(st.FunctionCount)
	}

	st.BranchCount = countBranches(root)

	return st, nil
}

// cyclomaticComplexity is 1 plus the number of decision points in the
// function's subtree. Nested function definitions are not excluded; their
// decision points count toward the enclosing function as well.
func cyclomaticComplexity(fn *sitter.Node) int {
	complexity := 1
	walkTree(fn, func(n *sitter.Node) {
		if n != fn && decisionNodeTypes[n.Type()] {
			complexity++
		}
	})
	return complexity
}

func countBranches(root *sitter.Node) int {
	count := 0
	walkTree(root, func(n *sitter.Node) {
		if branchNodeTypes[n.Type()] {
			count++
		}
		// An elif is both a branch of its if-chain and a conditional of its
		// own, so it contributes twice. An if nested under an else clause
		// is its own statement node and counts once, like any other if.
		if n.Type() == "elif_clause" {
			count += 2
		}
	})
	return count
}

// findNodes returns all nodes of the given type in depth-first order.
func findNodes(root *sitter.Node, nodeType string) []*sitter.Node {
	var result []*sitter.Node
	walkTree(root, func(n *sitter.Node) {
		if n.Type() == nodeType {
			result = append(result, n)
		}
	})
	return result
}

func walkTree(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(i), fn)
	}
}

// IsAvailable returns whether Python structural analysis is available.
// Returns true when CGO is enabled.
func IsAvailable() bool {
	return true
}
