package ezpublish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ezexport/internal/logger"
)

// fakeCMS answers {"ids": [...]} with one object per id. Ids listed in fail
// make the whole batch fail.
type fakeCMS struct {
	fail     []string
	empty    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
	lastAuth atomic.Value
	lastUA   atomic.Value
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.lastAuth.Store(r.Header.Get("Authorization"))
	f.lastUA.Store(r.Header.Get("User-Agent"))

	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	time.Sleep(10 * time.Millisecond)

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := []map[string]any{}

	for _, id := range req.IDs {
		if slices.Contains(f.fail, id) {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		if slices.Contains(f.empty, id) {
			_, _ = w.Write([]byte(`{}`))
			return
		}

		data = append(data, map[string]any{
			"nodeId":       json.Number(id),
			"contentClass": "article",
			"published":    1234567890,
			"fields": []map[string]any{
				{"name": "title", "type": "ezstring", "value": "Title " + id},
				{"name": "image", "type": "ezimage", "value": "/var/storage/" + id + ".jpg"},
			},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprint(i + 1)
	}

	return out
}

func newTestClient(url string, batch, concurrent int) *Client {
	return NewClient(resty.New(), Options{
		ContentURL:           url,
		Secret:               "s3cret",
		Domain:               "https://www.example.no",
		BatchSize:            batch,
		MaxConcurrentBatches: concurrent,
	}, logger.Discard())
}

func TestFetchBatch(t *testing.T) {
	cms := &fakeCMS{}
	srv := httptest.NewServer(cms)
	defer srv.Close()

	objects, err := newTestClient(srv.URL, 10, 1).FetchBatch(context.Background(), []string{"7"})
	require.NoError(t, err)
	require.Len(t, objects, 1)

	obj := objects[0]
	assert.Equal(t, "7", obj.NodeID.String())
	assert.Equal(t, "1234567890", obj.Published.String())
	assert.Equal(t, "Title 7", obj.Fields[0].Value.String())
	assert.Equal(t, "https://www.example.no/var/storage/7.jpg", obj.Fields[1].Value.String())

	assert.Equal(t, "s3cret", cms.lastAuth.Load())
	assert.Equal(t, "curl", cms.lastUA.Load())
}

func TestFetch_BatchesWithBoundedConcurrency(t *testing.T) {
	cms := &fakeCMS{}
	srv := httptest.NewServer(cms)
	defer srv.Close()

	objects, stats, err := newTestClient(srv.URL, 3, 2).Fetch(context.Background(), ids(20))
	require.NoError(t, err)

	assert.Len(t, objects, 20)
	assert.Equal(t, 7, stats.Batches)
	assert.Equal(t, 0, stats.FailedBatches)
	assert.Equal(t, int32(7), cms.calls.Load())
	assert.LessOrEqual(t, cms.peak.Load(), int32(2))

	// Batch order is preserved.
	assert.Equal(t, "1", objects[0].NodeID.String())
	assert.Equal(t, "20", objects[19].NodeID.String())
}

func TestFetch_FailedAndEmptyBatchesContributeNothing(t *testing.T) {
	cms := &fakeCMS{fail: []string{"2"}, empty: []string{"5"}}
	srv := httptest.NewServer(cms)
	defer srv.Close()

	objects, stats, err := newTestClient(srv.URL, 2, 4).Fetch(context.Background(), ids(6))
	require.NoError(t, err)

	got := []string{}
	for _, o := range objects {
		got = append(got, o.NodeID.String())
	}

	assert.Equal(t, []string{"3", "4"}, got)
	assert.Equal(t, 3, stats.Batches)
	assert.Equal(t, 1, stats.FailedBatches)
}

func TestFetch_NoIDs(t *testing.T) {
	objects, stats, err := newTestClient("http://unused.invalid", 10, 4).Fetch(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, objects)
	assert.Equal(t, 0, stats.Batches)
}

func TestFetch_Errors(t *testing.T) {
	_, _, err := newTestClient("", 10, 4).Fetch(context.Background(), ids(1))
	assert.True(t, errors.Is(err, ErrMissingContentURL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = newTestClient("http://unused.invalid", 10, 4).Fetch(ctx, ids(1))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}, {"5"}}, chunk(ids(5), 2))
	assert.Nil(t, chunk(nil, 3))
}

func TestDecodeObjects(t *testing.T) {
	wrapped, err := DecodeObjects([]byte(`{"data":[{"nodeId":1,"contentClass":"faq","fields":[]}]}`))
	require.NoError(t, err)
	require.Len(t, wrapped, 1)
	assert.Equal(t, "1", wrapped[0].NodeID.String())
	assert.True(t, wrapped[0].Found())

	bare, err := DecodeObjects([]byte(` [{"nodeId":"2","fields":null}]`))
	require.NoError(t, err)
	require.Len(t, bare, 1)
	assert.False(t, bare[0].Found())

	none, err := DecodeObjects([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = DecodeObjects([]byte(`not json`))
	assert.Error(t, err)
}

func TestAbsolutizeImages(t *testing.T) {
	objects, err := DecodeObjects([]byte(`[{"nodeId":1,"fields":[
		{"name":"image","type":"ezimage","value":"/var/a.jpg"},
		{"name":"title","type":"ezstring","value":"/not/an/image"}
	]}]`))
	require.NoError(t, err)

	AbsolutizeImages(objects, "https://www.example.no/")

	assert.Equal(t, "https://www.example.no/var/a.jpg", objects[0].Fields[0].Value.String())
	assert.Equal(t, "/not/an/image", objects[0].Fields[1].Value.String())
}
