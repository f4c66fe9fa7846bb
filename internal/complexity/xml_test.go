package complexity

import "testing"

func TestAutomationRecordCountsAsOneLine(t *testing.T) {
	a := NewXMLAnalyzer()
	content := `<odoo>
    <record id="auto_1" model="base.automation">
        <field name="name">Notify on confirm</field>
        <field name="trigger">on_write</field>
        <field name="filter_domain">[('state', '=', 'sale')]</field>
        <field name="state">code</field>
    </record>
</odoo>`

	m := a.Analyze(content, "automation.xml")
	if m.Loc != 1 {
		t.Errorf("Loc = %d, want 1", m.Loc)
	}
	if m.FilesAnalyzed != 1 {
		t.Errorf("FilesAnalyzed = %d, want 1", m.FilesAnalyzed)
	}
}

func TestAutomationComplexFilterDomain(t *testing.T) {
	a := NewXMLAnalyzer()
	content := `<odoo>
    <record id="auto_2" model="base.automation">
        <field name="filter_domain">['|', '|', ('a', '=', 1), ('b', '=', 2), '&amp;', ('c', '=', 3), ('d', '!=', 4), ('e', '>', 5)]</field>
    </record>
</odoo>`

	m := a.Analyze(content, "automation.xml")
	// 5 parenthesized conditions, above the threshold of 3
	if m.Loc != 5 {
		t.Errorf("Loc = %d, want 5", m.Loc)
	}
}

func TestViewArchMeaningfulLines(t *testing.T) {
	a := NewXMLAnalyzer()
	content := `<odoo>
    <record id="view_1" model="ir.ui.view">
        <field name="model">sale.order</field>
        <field name="arch" type="xml">
            <form string="Order">
                <group>
                    <field name="x_studio_margin"/>
                    <field name="x_note" widget="text"/>
                </group>
            </form>
        </field>
    </record>
</odoo>`

	m := a.Analyze(content, "view.xml")
	// form, group, two fields; closing tags are skipped
	if m.Loc != 4 {
		t.Errorf("Loc = %d, want 4", m.Loc)
	}
	if m.UIElementCount < 3 {
		t.Errorf("UIElementCount = %d, want at least 3", m.UIElementCount)
	}
	if !m.FileTypes["xml"] {
		t.Error("expected xml file type")
	}
}

func TestPlainXMLFallsBackToNonBlankLines(t *testing.T) {
	a := NewXMLAnalyzer()
	content := `<odoo>
    <data>
        <record id="x" model="res.partner"/>
    </data>
</odoo>`

	m := a.Analyze(content, "data.xml")
	if m.Loc != 5 {
		t.Errorf("Loc = %d, want 5", m.Loc)
	}
}

func TestQWebTemplateUICounts(t *testing.T) {
	a := NewXMLAnalyzer()
	content := `<template id="report_doc">
    <t t-foreach="docs" t-as="doc">
        <t t-if="doc.partner_id">
            <span t-esc="doc.partner_id.name"/>
        </t>
    </t>
</template>`

	m := a.Analyze(content, "report.xml")
	if m.UIElementCount < 2 {
		t.Errorf("UIElementCount = %d, want at least 2", m.UIElementCount)
	}
}
