package chart

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/presentation/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	id        int
	draws     []ChartData
	destroyed int
	drawErr   error
}

func (s *fakeSurface) Draw(data ChartData) error {
	if s.destroyed > 0 {
		return errors.New("draw on destroyed surface")
	}
	s.draws = append(s.draws, data)
	return s.drawErr
}

func (s *fakeSurface) Destroy() error {
	s.destroyed++
	return nil
}

type fakeFactory struct {
	created []*fakeSurface
	err     error
}

func (f *fakeFactory) NewSurface() (Surface, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &fakeSurface{id: len(f.created)}
	f.created = append(f.created, s)
	return s, nil
}

func sampleRecords() []model.RawRecord {
	day := func(label string, v float64) model.DayGroup {
		return model.DayGroup{Entries: []model.DayEntry{{Label: label, Value: v}}}
	}
	return []model.RawRecord{
		{Years: []model.YearEntry{{
			Year: "2022",
			Months: []model.MonthGroup{{Entries: []model.MonthEntry{{
				Month: "03",
				Days:  []model.DayGroup{day("2022/03/02 , 00:00:00", 5), day("2022/03/01 , 00:00:00", 7)},
			}}}},
		}}},
		{Years: []model.YearEntry{{
			Year: "2021",
			Months: []model.MonthGroup{{Entries: []model.MonthEntry{{
				Month: "12",
				Days:  []model.DayGroup{day("2021/12/31 , 00:00:00", 3)},
			}}}},
		}}},
	}
}

func newTestPresenter(factory SurfaceFactory) *Presenter {
	colors := palette.NewColorCacheWithSource(rand.NewSource(42))
	return NewPresenter(factory, WithColorCache(colors))
}

func TestRenderBuildsChartData(t *testing.T) {
	factory := &fakeFactory{}
	p := newTestPresenter(factory)

	data, err := p.Render(sampleRecords(), model.GranularityDay)
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, data.Title)
	assert.Equal(t, DefaultDatasetLabel, data.DatasetLabel)
	assert.Equal(t, DefaultOptions(), data.Options)
	assert.Equal(t, []string{"2021/12/31", "2022/03/01", "2022/03/02"}, data.Labels())

	// Same year-month shares a color
	assert.Equal(t, data.Points[1].Color, data.Points[2].Color)
	for _, point := range data.Points {
		assert.Regexp(t, `^#[0-9A-F]{6}$`, point.Color)
	}

	require.Len(t, factory.created, 1)
	require.Len(t, factory.created[0].draws, 1)
	assert.Equal(t, *data, factory.created[0].draws[0])
}

func TestRenderDestroysPreviousSurface(t *testing.T) {
	factory := &fakeFactory{}
	p := newTestPresenter(factory)

	for _, g := range []model.Granularity{model.GranularityDay, model.GranularityMonth, model.GranularityYear} {
		_, err := p.Render(sampleRecords(), g)
		require.NoError(t, err)
	}

	require.Len(t, factory.created, 3)
	assert.Equal(t, 1, factory.created[0].destroyed)
	assert.Equal(t, 1, factory.created[1].destroyed)
	assert.Equal(t, 0, factory.created[2].destroyed, "only the live surface survives")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, factory.created[2].destroyed, "close destroys exactly once")
}

func TestRenderEmptyRecords(t *testing.T) {
	factory := &fakeFactory{}
	p := newTestPresenter(factory)

	data, err := p.Render(nil, model.GranularityMonth)
	require.NoError(t, err)
	assert.Empty(t, data.Points)
	assert.Len(t, factory.created, 1)

	_, err = p.Activate(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRenderSurfaceErrors(t *testing.T) {
	t.Run("factory_failure", func(t *testing.T) {
		p := newTestPresenter(&fakeFactory{err: errors.New("no display")})
		data, err := p.Render(sampleRecords(), model.GranularityYear)
		require.Error(t, err)
		require.NotNil(t, data)
		assert.Len(t, data.Points, 2)
	})

	t.Run("draw_failure", func(t *testing.T) {
		factory := &fakeFactory{}
		p := NewPresenter(SurfaceFactoryFunc(func() (Surface, error) {
			s := &fakeSurface{drawErr: errors.New("disk full")}
			factory.created = append(factory.created, s)
			return s, nil
		}))
		_, err := p.Render(sampleRecords(), model.GranularityYear)
		require.Error(t, err)

		// The failed surface is still owned and released on the next render
		_, _ = p.Render(sampleRecords(), model.GranularityYear)
		assert.Equal(t, 1, factory.created[0].destroyed)
	})
}

func TestActivate(t *testing.T) {
	p := newTestPresenter(&fakeFactory{})

	t.Run("month_has_no_matches", func(t *testing.T) {
		_, err := p.Render(sampleRecords(), model.GranularityMonth)
		require.NoError(t, err)

		activation, err := p.Activate(1)
		require.NoError(t, err)
		assert.Equal(t, "2022-03", activation.Label)
		assert.Equal(t, model.GranularityMonth, activation.Granularity)
		assert.Nil(t, activation.Matches)
	})

	t.Run("year_collects_matches", func(t *testing.T) {
		_, err := p.Render(sampleRecords(), model.GranularityYear)
		require.NoError(t, err)

		activation, err := p.Activate(0)
		require.NoError(t, err)
		assert.Equal(t, "2021", activation.Label)
		require.Len(t, activation.Matches, 1)
		assert.True(t, activation.Matches[0].HasYear("2021"))
	})

	t.Run("out_of_range", func(t *testing.T) {
		for _, idx := range []int{-1, 2, 100} {
			_, err := p.Activate(idx)
			assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
		}
	})
}

func TestActivateDoesNotChangeLabels(t *testing.T) {
	p := newTestPresenter(&fakeFactory{})
	_, err := p.Render(sampleRecords(), model.GranularityYear)
	require.NoError(t, err)

	before := p.Labels()
	_, err = p.Activate(1)
	require.NoError(t, err)
	assert.Equal(t, before, p.Labels())
}

func TestWithTitle(t *testing.T) {
	p := NewPresenter(&fakeFactory{}, WithTitle("Quarterly"), WithTitle(""))
	data, err := p.Render(nil, model.GranularityDay)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly", data.Title)
}
