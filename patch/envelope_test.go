package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEnvelope(t *testing.T) {
	assert.True(t, IsEnvelope("*** Begin Patch\n*** End Patch"))
	assert.True(t, IsEnvelope("\n  *** Begin Patch\n*** End Patch"))
	assert.False(t, IsEnvelope("--- a/x.txt\n+++ b/x.txt\n"))
	assert.False(t, IsEnvelope(""))
}

func TestParseEnvelope(t *testing.T) {
	testCases := []struct {
		name        string
		text        string
		wantPatches []FilePatch
		wantWrites  []FileWrite
	}{
		{
			name: "add-delete-update",
			text: `*** Begin Patch
*** Add File: notes/todo.txt
+first
+second
*** Delete File: legacy.txt
*** Update File: app/config.yaml
*** Move to: app/config-next.yaml
@@ server:
-  port: 8080
+  port: 9090
*** End Patch`,
			wantWrites: []FileWrite{
				{Path: "notes/todo.txt", Content: "first\nsecond\n"},
			},
			wantPatches: []FilePatch{
				{
					Path: "app/config.yaml",
					Hunks: []Hunk{
						{Lines: []Line{
							{Kind: Removed, Text: "  port: 8080\n"},
							{Kind: Added, Text: "  port: 9090\n"},
						}},
					},
				},
			},
		},
		{
			name: "empty",
			text: `*** Begin Patch
*** End Patch`,
		},
		{
			name: "first chunk without header",
			text: `*** Begin Patch
*** Update File: main.go
-a
+b
*** End Patch`,
			wantPatches: []FilePatch{
				{
					Path: "main.go",
					Hunks: []Hunk{
						{Lines: []Line{
							{Kind: Removed, Text: "a\n"},
							{Kind: Added, Text: "b\n"},
						}},
					},
				},
			},
		},
		{
			name: "multiple chunks with end-of-file marker",
			text: `*** Begin Patch
*** Update File: main.go
@@
 ctx
-a
+b
@@
-c
+d
*** End of File
*** End Patch`,
			wantPatches: []FilePatch{
				{
					Path: "main.go",
					Hunks: []Hunk{
						{Lines: []Line{
							{Kind: Context, Text: "ctx\n"},
							{Kind: Removed, Text: "a\n"},
							{Kind: Added, Text: "b\n"},
						}},
						{Lines: []Line{
							{Kind: Removed, Text: "c\n"},
							{Kind: Added, Text: "d\n"},
						}},
					},
				},
			},
		},
		{
			name: "crlf terminators",
			text: "*** Begin Patch\r\n" +
				"*** Add File: notes/todo.txt\r\n" +
				"+first\r\n" +
				"*** Update File: main.go\r\n" +
				"@@\r\n" +
				"-a\r\n" +
				"+b\r\n" +
				"*** End Patch\r\n",
			wantWrites: []FileWrite{
				{Path: "notes/todo.txt", Content: "first\n"},
			},
			wantPatches: []FilePatch{
				{
					Path: "main.go",
					Hunks: []Hunk{
						{Lines: []Line{
							{Kind: Removed, Text: "a\n"},
							{Kind: Added, Text: "b\n"},
						}},
					},
				},
			},
		},
		{
			name: "missing end marker",
			text: `*** Begin Patch
*** Add File: a.txt
+x
`,
		},
		{
			name: "trailing garbage",
			text: `*** Begin Patch
*** End Patch
left over`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			patches, writes := ParseEnvelope(tc.text)
			assert.EqualValues(t, tc.wantPatches, patches)
			assert.EqualValues(t, tc.wantWrites, writes)
		})
	}
}
