// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/operation"
)

// 🔧 MockNotifier is a mock implementation of event.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, ev event.Event) {
	m.Called(ctx, ev)
}

// 🔧 MockTrash is a mock implementation of trash.Trash
type MockTrash struct {
	mock.Mock
}

func (m *MockTrash) Put(ctx context.Context, path string) (string, error) {
	result := m.Called(ctx, path)
	return result.String(0), result.Error(1)
}

// 🧪 createTestEnv returns a context carrying a test logger and an engine
// recording its events
func createTestEnv(t *testing.T) (context.Context, *operation.Engine, *event.Recorder) {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())
	rec := &event.Recorder{}
	return ctx, operation.New(operation.Options{Notifier: rec}), rec
}

// writeTree creates files (content) and directories (trailing slash) below root
func writeTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()
	for name, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// readTree returns every entry below root in the writeTree format
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func eventPaths(t *testing.T, root string, evs []event.Event) []string {
	t.Helper()
	var out []string
	for _, ev := range evs {
		rel, err := filepath.Rel(root, ev.Path)
		require.NoError(t, err)
		out = append(out, string(ev.Kind)+" "+filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}
