package traycontrols_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelepuginivan/traycontrols"
	"github.com/shelepuginivan/traycontrols/traytest"
)

func TestCollector(t *testing.T) {
	m := traycontrols.New[menuGroup]()

	require.NoError(t, m.Insert(traycontrols.NewRadio(traytest.NewItem("red", "Red"), radioColor, "red")))
	require.NoError(t, m.Insert(traycontrols.NewRadio(traytest.NewItem("green", "Green"), radioColor, "red")))
	require.NoError(t, m.Insert(traycontrols.NewCheckBox(traytest.NewItem("added", "Added"), checkBoxChange)))
	require.NoError(t, m.Update("green", check))
	require.NoError(t, m.Update("missing", check))

	collector := traycontrols.NewCollector(m, "traydemo")
	assert.Equal(t, 9, testutil.CollectAndCount(collector))

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(collector))

	families, err := registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName() + "/" + metric.GetLabel()[0].GetValue()

			switch {
			case metric.GetCounter() != nil:
				values[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[name] = metric.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 3.0, values["traydemo_menu_state/items"])
	assert.Equal(t, 2.0, values["traydemo_menu_state/groups"])
	assert.Equal(t, 1.0, values["traydemo_menu_state/selected_groups"])
	assert.Equal(t, 3.0, values["traydemo_menu_operations_total/inserts"])
	assert.Equal(t, 2.0, values["traydemo_menu_operations_total/updates"])
	assert.Equal(t, 1.0, values["traydemo_menu_operations_total/misses"])
	assert.Equal(t, 2.0, values["traydemo_menu_operations_total/fanouts"])
}
