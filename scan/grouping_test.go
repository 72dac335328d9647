package scan

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSingleDirectoryTwoCandidates(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "GameA", "game.exe"))
	writeExe(t, filepath.Join(root, "GameA", "launcher.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, filepath.Join(root, "GameA"), units[0].RootDir)
	assert.Len(t, units[0].LaunchCandidates, 2)
}

func TestGroupSiblingDirectoriesAreSeparateUnits(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "GameA", "game.exe"))
	writeExe(t, filepath.Join(root, "GameA2", "game.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	// Similar names are still different games when they live in different dirs.
	require.Len(t, units, 2)
	assert.NotEqual(t, units[0].RootDir, units[1].RootDir)
}

func TestGroupNestedExecutablesStayInOneUnit(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "GameA", "game.exe"))
	writeExe(t, filepath.Join(root, "GameA", "bin", "tool.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.ElementsMatch(t,
		[]string{"game.exe", filepath.Join("bin", "tool.exe")},
		units[0].LaunchCandidates)
	// The shallower candidate is the default.
	assert.Equal(t, "game.exe", units[0].LaunchCandidates[0])
}

func TestGroupTopLevelExecutableIsOwnUnit(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "Standalone.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Standalone", units[0].Title)
	assert.Equal(t, []string{"Standalone.exe"}, units[0].LaunchCandidates)
}

func TestGroupNormalizesTitle(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "ExampleTitle_v1.2_x64", "Example.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "ExampleTitle", units[0].Title)
	assert.Equal(t, "1.2", units[0].Version)
	assert.Equal(t, []string{"Example.exe"}, units[0].LaunchCandidates)
}

func TestGroupInstallersSortLast(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "GameA", "unins000.exe"))
	writeExe(t, filepath.Join(root, "GameA", "game.exe"))
	writeExe(t, filepath.Join(root, "GameA", "setup.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Len(t, units[0].LaunchCandidates, 3)
	assert.Equal(t, "game.exe", units[0].LaunchCandidates[0])
}

func TestGroupTaggedFolderUsesInnerRoot(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "[Group] Release", "ActualGame", "game.exe"))
	writeExe(t, filepath.Join(root, "[Group] Release", "ActualGame", "config.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "ActualGame", units[0].Name)
	assert.Equal(t, filepath.Join(root, "[Group] Release", "ActualGame"), units[0].RootDir)
}

func TestGroupPlatformDirIsNotARoot(t *testing.T) {
	root := t.TempDir()
	writeExe(t, filepath.Join(root, "[Tag] GameB", "Windows", "game.exe"))
	writeExe(t, filepath.Join(root, "[Tag] GameB", "Windows", "other.exe"))

	units, err := Group(context.Background(), root, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "[Tag] GameB", units[0].Name)
	assert.Equal(t, "GameB", units[0].Title)
}

func TestCommonParentLen(t *testing.T) {
	tests := []struct {
		name     string
		rels     []string
		expected int
	}{
		{"same dir", []string{"GameA/game.exe", "GameA/tool.exe"}, 1},
		{"nested", []string{"GameA/game.exe", "GameA/data/game.exe"}, 1},
		{"deep shared", []string{"GameA/inner/a.exe", "GameA/inner/b.exe"}, 2},
		{"empty", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, commonParentLen(tc.rels))
		})
	}
}
