package retention

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/hcloud-snapshot-rotator/internal/snapshot"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fiveDaysApart returns ids 1..n, id i created (i-1)*5 days after base.
func fiveDaysApart(n int) []snapshot.Snapshot {
	out := make([]snapshot.Snapshot, n)
	for i := range out {
		id := strconv.Itoa(i + 1)
		out[i] = snapshot.Snapshot{
			ID:        id,
			Name:      "test-server-" + id,
			CreatedAt: base.AddDate(0, 0, 5*i),
		}
	}
	return out
}

func ids(snaps []snapshot.Snapshot) []string {
	out := make([]string, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, s.ID)
	}
	return out
}

func TestSelectDeletesTwoOldest(t *testing.T) {
	orders := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
	}
	all := fiveDaysApart(5)

	for _, order := range orders {
		in := make([]snapshot.Snapshot, 0, len(order))
		for _, idx := range order {
			in = append(in, all[idx])
		}

		plan := Select(in, 3)
		assert.Equal(t, []string{"5", "4", "3"}, ids(plan.Keep))
		assert.ElementsMatch(t, []string{"1", "2"}, ids(plan.Delete))
	}
}

func TestSelectCountProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for n := 0; n <= 8; n++ {
		snaps := fiveDaysApart(n)
		rng.Shuffle(len(snaps), func(i, j int) { snaps[i], snaps[j] = snaps[j], snaps[i] })

		for keep := -1; keep <= 10; keep++ {
			plan := Select(snaps, keep)

			want := n - max(keep, 0)
			if want < 0 {
				want = 0
			}
			require.Len(t, plan.Delete, want, "n=%d keep=%d", n, keep)
			require.Len(t, plan.Keep, n-want)

			// every deleted snapshot is older than every kept one
			for _, d := range plan.Delete {
				for _, k := range plan.Keep {
					assert.True(t, d.CreatedAt.Before(k.CreatedAt))
				}
			}
		}
	}
}

func TestSelectZeroRetainDeletesAll(t *testing.T) {
	plan := Select(fiveDaysApart(3), 0)
	assert.Empty(t, plan.Keep)
	assert.Equal(t, []string{"3", "2", "1"}, ids(plan.Delete))
}

func TestSelectTiesKeepQueryOrder(t *testing.T) {
	in := []snapshot.Snapshot{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base},
		{ID: "c", CreatedAt: base},
	}

	plan := Select(in, 1)
	assert.Equal(t, []string{"a"}, ids(plan.Keep))
	assert.Equal(t, []string{"b", "c"}, ids(plan.Delete))
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	in := fiveDaysApart(4)
	Select(in, 1)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(in))
}
