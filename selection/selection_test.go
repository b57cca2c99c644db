// SPDX-License-Identifier: MIT

package selection_test

import (
	"testing"

	"github.com/katalvlaran/spreg/selection"
	"github.com/stretchr/testify/require"
)

// reference restates the procedure step by step, independently of Choose's
// switch layout.
func reference(f selection.Flags) selection.Category {
	if !f.SigLag && !f.SigError {
		return selection.OLS
	}
	if f.SigLagRobust || f.SigErrorRobust {
		if f.SigLagRobust && f.SigErrorRobust {
			return selection.MIXED
		}
		if f.SigLagRobust {
			return selection.LAG
		}
		return selection.ERROR
	}
	if f.SigLag && f.SigError {
		return selection.MIXED
	}
	if f.SigLag {
		return selection.LAG
	}
	return selection.ERROR
}

// TestChoose_AllCombinations walks all 32 combinations of the four flags plus
// heteroskedasticity, which must not influence the category.
func TestChoose_AllCombinations(t *testing.T) {
	t.Parallel()

	seen := map[selection.Category]int{}
	for mask := 0; mask < 32; mask++ {
		f := selection.Flags{
			SigError:       mask&1 != 0,
			SigLag:         mask&2 != 0,
			SigErrorRobust: mask&4 != 0,
			SigLagRobust:   mask&8 != 0,
		}
		het := mask&16 != 0
		got := selection.Choose(f)
		require.Equal(t, reference(f), got, "flags=%+v het=%v", f, het)
		require.Equal(t, got, selection.Choose(f), "Choose must be deterministic")
		require.Contains(t, []selection.Category{selection.OLS, selection.LAG, selection.ERROR, selection.MIXED}, got)
		seen[got]++
	}
	require.Len(t, seen, 4)
	// OLS covers the 4 robust combinations x 2 het values
	require.Equal(t, 8, seen[selection.OLS])
}

func TestChoose_Examples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags selection.Flags
		want  selection.Category
	}{
		{"RobustLagWins", selection.Flags{SigLag: true, SigError: true, SigLagRobust: true}, selection.LAG},
		{"NothingSignificant", selection.Flags{}, selection.OLS},
		{"RobustOnlyIgnoredWithoutPlain", selection.Flags{SigErrorRobust: true, SigLagRobust: true}, selection.OLS},
		{"BothRobust", selection.Flags{SigLag: true, SigErrorRobust: true, SigLagRobust: true}, selection.MIXED},
		{"RobustError", selection.Flags{SigLag: true, SigError: true, SigErrorRobust: true}, selection.ERROR},
		{"PlainBoth", selection.Flags{SigLag: true, SigError: true}, selection.MIXED},
		{"PlainLag", selection.Flags{SigLag: true}, selection.LAG},
		{"PlainError", selection.Flags{SigError: true}, selection.ERROR},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, selection.Choose(tc.flags))
		})
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range []selection.Category{selection.OLS, selection.LAG, selection.ERROR, selection.MIXED} {
		got, err := selection.ParseCategory(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	got, err := selection.ParseCategory(" mixed ")
	require.NoError(t, err)
	require.Equal(t, selection.MIXED, got)

	_, err = selection.ParseCategory("SARAR")
	require.ErrorIs(t, err, selection.ErrUnknownCategory)
	require.Equal(t, "Category(9)", selection.Category(9).String())
}
