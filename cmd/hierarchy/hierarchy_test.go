package hierarchy

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/config"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/container"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/store"
)

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0600))
	cfg, err := config.InitializeConfigFromFile(cfgPath)
	require.NoError(t, err)

	c, err := container.NewContainerWithStore(cfg, &store.MockRuleStore{}, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planta_2024-03.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_Text(t *testing.T) {
	color.NoColor = true
	c := newTestContainer(t)
	input := writeReport(t, `code,concept,credit,debit
5000-0000-000-000,Egresos,,300
5000-1000-000-000,Materiales,,300
5000-1000-001-000,Cemento,,300
5000-1000-001-101,Cemento gris,,300
BADCODE,Ajuste,,1
`)

	var out bytes.Buffer
	require.NoError(t, Run(c, input, "", "text", &out))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "5000-0000-000-000 L1 Egresos -300.00"))
	assert.Contains(t, text, "\n  5000-1000-000-000 L2 Materiales -300.00\n")
	assert.Contains(t, text, "\n    5000-1000-001-000 L3 Cemento -300.00\n")
	assert.Contains(t, text, "\n      5000-1000-001-101 L4 Cemento gris -300.00\n")
	assert.Contains(t, text, "BADCODE")
}

func TestRun_JSON(t *testing.T) {
	c := newTestContainer(t)
	input := writeReport(t, "code,concept,credit,debit\n1000-0000-000-000,Activo,10,\n1000-2000-000-000,Caja,10,\n")

	var out bytes.Buffer
	require.NoError(t, Run(c, input, "", "json", &out))

	var nodes []models.HierarchyNode
	require.NoError(t, json.Unmarshal(out.Bytes(), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "1000-0000-000-000", nodes[1].Parent)
}

func TestRun_Errors(t *testing.T) {
	c := newTestContainer(t)
	var out bytes.Buffer

	assert.Error(t, Run(nil, "x.csv", "", "text", &out))
	assert.Error(t, Run(c, "x.csv", "", "pdf", &out))
	assert.Error(t, Run(c, writeReport(t, "code,concept,credit,debit\n"), "", "text", &out))
}
