package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []entity.DomainResult {
	at := time.Date(2024, 5, 1, 12, 30, 15, 123456789, time.UTC)
	return []entity.DomainResult{
		entity.NewDomainResult(entity.DomainCandidate{Name: "quicklab", Extension: ".com"}, 10, entity.ScoreBundle{TrendScore: 90, BrandabilityScore: 70, MarketValue: 5000}, at),
		entity.NewDomainResult(entity.DomainCandidate{Name: "neural", Extension: ".ai"}, 33.33, entity.ScoreBundle{TrendScore: 77, BrandabilityScore: 95, MarketValue: 1234}, at.Add(time.Minute)),
		entity.NewDomainResult(entity.DomainCandidate{Name: "cloud,hub", Extension: ".com"}, 8.99, entity.ScoreBundle{TrendScore: 71, BrandabilityScore: 60, MarketValue: 100}, at),
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, want := range sample() {
		assert.Equal(t, want.Domain, got[i].Domain)
		assert.Equal(t, want.Price, got[i].Price)
		assert.Equal(t, want.ROIPotential, got[i].ROIPotential)
		assert.True(t, want.FoundAt.Equal(got[i].FoundAt))
		got[i].FoundAt = want.FoundAt
		assert.Equal(t, want, got[i])
	}
}

func TestCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "domain,extension,price,trend_score,brandability_score,market_value,keyword,found_at,roi_potential\n", buf.String())

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(bytes.NewBufferString("domain,extension\nx.com,.com\n"))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()[:1]))
	broken := bytes.Replace(buf.Bytes(), []byte(",10,"), []byte(",ten,"), 1)
	_, err = ReadCSV(bytes.NewReader(broken))
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))
	assert.Contains(t, buf.String(), `"roi_potential": 50000`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, want := range sample() {
		assert.True(t, want.FoundAt.Equal(got[i].FoundAt))
		got[i].FoundAt = want.FoundAt
		assert.Equal(t, want, got[i])
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(domainsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "quicklab.com", rows[1][0])

	extRows, err := f.GetRows(extensionsSheet)
	require.NoError(t, err)
	require.Len(t, extRows, 3)
	assert.Equal(t, "com", extRows[1][0])
	assert.Equal(t, "2", extRows[1][1])
}

func TestExtensionAnalysis(t *testing.T) {
	stats := ExtensionAnalysis(sample())
	require.Len(t, stats, 2)
	assert.Equal(t, "com", stats[0].Extension)
	assert.Equal(t, 2, stats[0].Count)
	assert.InDelta(t, (10+8.99)/2, stats[0].AvgPrice, 1e-9)
	assert.Equal(t, "ai", stats[1].Extension)
}
