package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/715d/mincontainer/internal/dataset"
	"github.com/715d/mincontainer/pkg/container"
)

func TestRunner_Run(t *testing.T) {
	datasets := append(dataset.Builtin(),
		dataset.Dataset{Name: "fives", Label: "Minimum Int", Kind: dataset.KindInt, Values: []string{"5", "5", "5"}},
		dataset.Dataset{Name: "nothing", Label: "Minimum Nothing", Kind: dataset.KindInt},
	)

	results, err := Runner{Concurrency: 2}.Run(t.Context(), datasets)
	require.NoError(t, err)
	require.Len(t, results, 4)

	require.Equal(t, "doubles", results[0].Name)
	require.Equal(t, "-1.2", results[0].Min)
	require.Equal(t, 3, results[0].Size)

	require.Equal(t, "strings", results[1].Name)
	require.Equal(t, "anna", results[1].Min)

	require.Equal(t, "5", results[2].Min)
	require.False(t, results[2].Failed())

	require.True(t, results[3].Failed())
	require.ErrorIs(t, results[3].Err, container.ErrEmpty)
	require.Zero(t, results[3].Size)
}

func TestRunner_PreservesOrder(t *testing.T) {
	var datasets []dataset.Dataset
	for i := range 64 {
		datasets = append(datasets, dataset.Dataset{
			Name:   fmt.Sprintf("ds-%02d", i),
			Kind:   dataset.KindInt,
			Values: []string{fmt.Sprint(i + 10), fmt.Sprint(i)},
		})
	}

	results, err := Runner{}.Run(t.Context(), datasets)
	require.NoError(t, err)
	require.Len(t, results, len(datasets))
	for i, res := range results {
		require.Equal(t, datasets[i].Name, res.Name)
		require.Equal(t, fmt.Sprint(i), res.Min)
	}
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Runner{}.Run(ctx, dataset.Builtin())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_NoDatasets(t *testing.T) {
	results, err := Runner{}.Run(t.Context(), nil)
	require.NoError(t, err)
	require.Empty(t, results)
}
