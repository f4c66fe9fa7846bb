package complexity

import "testing"

func TestDetectPythonIndicators(t *testing.T) {
	d := NewDetector(nil)
	content := `class SaleOrder(models.Model):
    _inherit = 'sale.order'

    margin = fields.Float(compute='_compute_margin')

    @api.depends('amount_total')
    def _compute_margin(self):
        partners = self.env['res.partner'].search([])
        for order in self:
            if order.amount_total:
                order.margin = order.amount_total * 0.2
`
	ind := d.Detect(content, "py")

	if !ind.HasCompute {
		t.Error("HasCompute should be set")
	}
	if !ind.HasSearchBrowse {
		t.Error("HasSearchBrowse should be set")
	}
	if ind.ORMCallCount == 0 {
		t.Error("ORMCallCount should be positive")
	}
	if !ind.HasLoop || !ind.HasConditional {
		t.Error("control flow indicators should be set")
	}
	if ind.MethodCount != 1 {
		t.Errorf("MethodCount = %d, want 1", ind.MethodCount)
	}
	if !ind.HasPythonCode {
		t.Error("HasPythonCode should be set for py content")
	}
}

func TestDetectCrossModelCalls(t *testing.T) {
	d := NewDetector(nil)

	one := `self.env['res.partner'].search([])`
	if d.Detect(one, "py").CrossModelCalls {
		t.Error("one model is not cross-model")
	}

	two := `self.env['res.partner'].search([])
self.env['sale.order'].browse(ids)`
	if !d.Detect(two, "py").CrossModelCalls {
		t.Error("two distinct models should flag cross-model calls")
	}

	same := `self.env['res.partner'].search([])
self.env['res.partner'].browse(ids)`
	if d.Detect(same, "py").CrossModelCalls {
		t.Error("the same model twice is not cross-model")
	}
}

func TestDetectXMLIndicators(t *testing.T) {
	d := NewDetector(nil)
	content := `<record model="ir.ui.view">
    <field name="arch" type="xml">
        <xpath expr="//field[@name='partner_id']" position="after">
            <field name="x_margin" widget="monetary"/>
        </xpath>
        <form string="Order"/>
    </field>
</record>`

	ind := d.Detect(content, "xml")
	if ind.XPathCount != 1 {
		t.Errorf("XPathCount = %d, want 1", ind.XPathCount)
	}
	if !ind.HasWidgetOverride {
		t.Error("HasWidgetOverride should be set")
	}
	if !ind.IsFormTreeKanban {
		t.Error("IsFormTreeKanban should be set")
	}
}

func TestDetectNestedLoops(t *testing.T) {
	d := NewDetector(nil)

	single := `<t t-foreach="docs" t-as="doc"/>`
	if d.Detect(single, "xml").HasNestedLoops {
		t.Error("one t-foreach is not nested")
	}

	double := `<t t-foreach="docs" t-as="doc">
    <t t-foreach="doc.lines" t-as="line"/>
</t>`
	ind := d.Detect(double, "xml")
	if !ind.HasNestedLoops {
		t.Error("two t-foreach should flag nested loops")
	}
	if ind.TForeachCount != 2 {
		t.Errorf("TForeachCount = %d, want 2", ind.TForeachCount)
	}
}

func TestIndicatorsMerge(t *testing.T) {
	a := Indicators{HasCompute: true, ORMCallCount: 3, XPathCount: 1}
	b := Indicators{HasSQLQuery: true, ORMCallCount: 2, MethodCount: 4}

	a.Merge(b)
	if !a.HasCompute || !a.HasSQLQuery {
		t.Error("booleans must merge by OR")
	}
	if a.ORMCallCount != 5 {
		t.Errorf("ORMCallCount = %d, want 5 (summed)", a.ORMCallCount)
	}
	if a.XPathCount != 1 || a.MethodCount != 4 {
		t.Error("counts must merge by sum")
	}
}

func TestDetectorSkipsBadPatterns(t *testing.T) {
	table := PatternTable{
		"orm_patterns": {
			"orm_calls": {`[invalid`, `\.search\(`},
		},
	}
	d := NewDetector(table)

	ind := d.Detect(`self.search([])`, "py")
	if ind.ORMCallCount != 1 {
		t.Errorf("ORMCallCount = %d, want 1 (valid pattern still works)", ind.ORMCallCount)
	}
}
