package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivyrecon/ivyrecon/pkg/table"
)

func TestTableAppend(t *testing.T) {
	tbl := table.New("A", "B", "C")
	tbl.Append("1", "2", "3")
	tbl.Append("1")           // short rows pad
	tbl.Append("1", "2", "3", "4") // long rows truncate

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "", tbl.Cell(1, 2))
	assert.Equal(t, "3", tbl.Cell(2, 2))
	assert.Equal(t, "", tbl.Cell(5, 0)) // out of range reads are empty
}

func TestTableColumn(t *testing.T) {
	tbl := table.New("SSN", "Plan Name")
	assert.Equal(t, 0, tbl.Column("ssn"))
	assert.Equal(t, 1, tbl.Column("PLAN NAME"))
	assert.Equal(t, -1, tbl.Column("missing"))
}

func TestTableCopy(t *testing.T) {
	tbl := table.New("A")
	tbl.Append("original")

	cp := tbl.Copy()
	cp.Columns[0] = "changed"
	cp.Rows[0][0] = "changed"

	assert.Equal(t, "A", tbl.Columns[0])
	assert.Equal(t, "original", tbl.Rows[0][0])
}

func TestNormalizedTableAccessors(t *testing.T) {
	nt := &table.NormalizedTable{
		Source: table.SourcePayroll,
		Records: []table.Record{
			{Identity: "000000001", PlanName: "medical"},
			{Identity: "000000002", PlanName: "dental"},
			{Identity: "000000001", PlanName: "dental"},
		},
	}

	assert.Equal(t, 3, nt.Len())
	assert.Equal(t, []string{"000000001", "000000002"}, nt.Identities())
	assert.Equal(t, []string{"medical", "dental"}, nt.Plans())
}
