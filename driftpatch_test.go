package driftpatch_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fathomlabs/driftpatch"
	"github.com/fathomlabs/driftpatch/patch"
	"github.com/fathomlabs/driftpatch/tracing"
)

func seed(t *testing.T, fs afs.Service, URL, content string) {
	t.Helper()
	err := fs.Upload(context.Background(), URL, file.DefaultFileOsMode, strings.NewReader(content))
	require.NoError(t, err)
}

func content(t *testing.T, fs afs.Service, URL string) string {
	t.Helper()
	data, err := fs.DownloadWithURL(context.Background(), URL)
	require.NoError(t, err)
	return string(data)
}

func TestService_ApplyDiffText(t *testing.T) {
	root := "mem://localhost/driftpatch/service"
	ctx := context.Background()
	fs := afs.New()
	seed(t, fs, root+"/a.txt", "line1\nline2\nline3\n")
	seed(t, fs, root+"/b.txt", "alpha\nbeta\n")

	diff := `--- a/a.txt
+++ b/a.txt
@@ -1,3 +1,3 @@
 line1
-line2
+line2-changed
 line3
--- a/b.txt
+++ b/b.txt
@@ -1,2 +1,2 @@
 alpha
-beta
+BETA
`

	svc := driftpatch.New(driftpatch.WithFS(fs))
	opts := patch.DefaultOptions()
	opts.RepoRoot = root

	// dry run first
	reports := svc.ApplyDiffText(ctx, diff, opts)
	require.Len(t, reports, 2)
	assert.Equal(t, patch.Summary{Clean: 2}, patch.Summarize(reports))
	assert.Equal(t, "line1\nline2\nline3\n", content(t, fs, root+"/a.txt"))

	// real run
	opts.DryRun = false
	reports = svc.ApplyDiffText(ctx, diff, opts)
	require.Len(t, reports, 2)
	assert.Equal(t, patch.Summary{Clean: 2}, patch.Summarize(reports))
	assert.Equal(t, "line1\nline2-changed\nline3\n", content(t, fs, root+"/a.txt"))
	assert.Equal(t, "alpha\nBETA\n", content(t, fs, root+"/b.txt"))
}

func TestService_ApplyDiffText_PathFilter(t *testing.T) {
	root := "mem://localhost/driftpatch/filter"
	ctx := context.Background()
	fs := afs.New()
	seed(t, fs, root+"/a.txt", "one\n")
	seed(t, fs, root+"/b.txt", "two\n")

	diff := `--- a/a.txt
+++ b/a.txt
@@ -1,1 +1,1 @@
-one
+ONE
--- a/b.txt
+++ b/b.txt
@@ -1,1 +1,1 @@
-two
+TWO
`

	svc := driftpatch.New(driftpatch.WithFS(fs))
	opts := patch.DefaultOptions()
	opts.RepoRoot = root
	opts.PathFilter = "b.txt"
	opts.DryRun = false

	reports := svc.ApplyDiffText(ctx, diff, opts)
	require.Len(t, reports, 1)
	assert.Equal(t, "b.txt", reports[0].Path)
	assert.Equal(t, "one\n", content(t, fs, root+"/a.txt"))
	assert.Equal(t, "TWO\n", content(t, fs, root+"/b.txt"))
}

func TestService_ApplyDiffText_Envelope(t *testing.T) {
	root := "mem://localhost/driftpatch/envelope"
	ctx := context.Background()
	fs := afs.New()
	seed(t, fs, root+"/config.yaml", "server:\n  port: 8080\n")

	envelope := `*** Begin Patch
*** Add File: notes/todo.txt
+remember the milk
*** Update File: config.yaml
@@ server:
-  port: 8080
+  port: 9090
*** End Patch`

	svc := driftpatch.New(driftpatch.WithFS(fs))
	opts := patch.DefaultOptions()
	opts.RepoRoot = root
	opts.DryRun = false

	reports := svc.ApplyDiffText(ctx, envelope, opts)
	require.Len(t, reports, 2)
	assert.Equal(t, "remember the milk\n", content(t, fs, root+"/notes/todo.txt"))
	assert.Equal(t, "server:\n  port: 9090\n", content(t, fs, root+"/config.yaml"))
}

func TestService_ApplyFragments(t *testing.T) {
	root := "mem://localhost/driftpatch/fragments"
	ctx := context.Background()
	fs := afs.New()
	seed(t, fs, root+"/sample.txt", "line1\nline2\nline3\n")

	svc := driftpatch.New(driftpatch.WithFS(fs))
	opts := patch.DefaultOptions()
	opts.RepoRoot = root
	opts.DryRun = false

	records := []patch.Record{{
		Path:        "sample.txt",
		UnifiedDiff: "@@ -1,3 +1,3 @@\n line1\n-line2\n+line2-changed\n line3\n",
	}}
	reports := svc.ApplyFragments(ctx, records, opts)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Applied)
	assert.Equal(t, 1, reports[0].ChangedLines)
	assert.Equal(t, "line1\nline2-changed\nline3\n", content(t, fs, root+"/sample.txt"))
}

func TestService_BatchSpanAttributes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, tracing.InitWithExporter("driftpatch", "test", exporter))
	exporter.Reset()

	root := "mem://localhost/driftpatch/spans"
	ctx := context.Background()
	fs := afs.New()
	seed(t, fs, root+"/a.txt", "one\n")

	svc := driftpatch.New(driftpatch.WithFS(fs))
	opts := patch.DefaultOptions()
	opts.RepoRoot = root

	reports := svc.ApplyDiffText(ctx, "--- a/a.txt\n+++ b/a.txt\n@@ -1,1 +1,1 @@\n-one\n+ONE\n", opts)
	require.Len(t, reports, 1)

	var fileCounts []string
	for _, span := range exporter.GetSpans() {
		if span.Name != "driftpatch.applyDiffText" {
			continue
		}
		for _, kv := range span.Attributes {
			if kv.Key == "files" {
				fileCounts = append(fileCounts, kv.Value.AsString())
			}
		}
	}
	assert.Equal(t, []string{"1"}, fileCounts)
}

func TestService_ApplyDiffText_Garbage(t *testing.T) {
	svc := driftpatch.New()
	reports := svc.ApplyDiffText(context.Background(), "nothing like a diff\n", patch.DefaultOptions())
	assert.Empty(t, reports)
}
