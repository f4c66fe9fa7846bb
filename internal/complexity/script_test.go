package complexity

import "testing"

func TestScriptLocSkipsComments(t *testing.T) {
	a := NewScriptAnalyzer()
	content := `// widget registration
odoo.define('studio.widget', function (require) {
    // body
    var core = require('web.core');

    return core;
});
`
	m := a.Analyze(content, "widget.js")
	if m.Loc != 4 {
		t.Errorf("Loc = %d, want 4", m.Loc)
	}
	if !m.FileTypes["js"] {
		t.Error("expected js file type")
	}
}

func TestScriptFunctionAndBranchCounts(t *testing.T) {
	a := NewScriptAnalyzer()
	content := `function render(items) {
    const names = items.map(i => i.name);
    if (names.length) {
        for (const n of names) {
            console.log(n);
        }
    } else {
        console.log('empty');
    }
}
`
	m := a.Analyze(content, "render.js")
	// function declaration + arrow function
	if m.FunctionCount != 2 {
		t.Errorf("FunctionCount = %d, want 2", m.FunctionCount)
	}
	// if, else, for
	if m.BranchCount != 3 {
		t.Errorf("BranchCount = %d, want 3", m.BranchCount)
	}
}

func TestScriptExternalCalls(t *testing.T) {
	a := NewScriptAnalyzer()
	content := `fetch('/api/data').then(r => r.json());
$.ajax({url: '/legacy'});
`
	m := a.Analyze(content, "calls.js")
	if m.ExternalCallCount != 2 {
		t.Errorf("ExternalCallCount = %d, want 2", m.ExternalCallCount)
	}
}
