package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-apidoc/internal/registry"
)

const (
	fluidRoot    = "./testdata/fluid"
	libManifest  = "testdata/lib.yaml"
	bannerPrefix = "..  THIS FILE IS GENERATED BY `gen_doc.{py|sh}`\n    !DO NOT EDIT THIS FILE MANUALLY!\n\n"
)

func TestModuleFromPackageTree(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--root", fluidRoot, "--library", "paddle", "layers"}, &buf, io.Discard)
	require.NoError(t, err)

	want := bannerPrefix +
		"============\nfluid.layers\n============\n\n" +
		functionBlock("paddle", "fluid.layers", "Conv2D") +
		functionBlock("paddle", "fluid.layers", "Data") +
		functionBlock("paddle", "fluid.layers", "FC") +
		classBlock("paddle", "fluid.layers", "Initializer") +
		classBlock("paddle", "fluid.layers", "LayerHelper")
	assert.Equal(t, want, buf.String())
}

func TestBuildTagsResolveMembers(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--root", fluidRoot, "--tags", "fluidgpu", "layers"}, &buf, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), functionBlock("", "fluid.layers", "CudnnLSTM"))
}

func TestRootWithSubmodules(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--root", fluidRoot, "", "--submodules", "optimizer", "contrib/quant"}, &buf, io.Discard)
	require.Error(t, err, "contrib/quant is not a member name")
	assert.True(t, registry.IsLookup(err))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, bannerPrefix+"=====\nfluid\n=====\n\n"))
	assert.Contains(t, out, "optimizer\n=========\n\n"+
		classBlock("", "fluid.optimizer", "Adam")+
		classBlock("", "fluid.optimizer", "AdamOptimizer")+
		classBlock("", "fluid.optimizer", "SGD"))
	assert.NotContains(t, out, "quant")
}

func TestCurrentModuleScenario(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--manifest", libManifest, "mod"}, &buf, io.Discard)
	require.NoError(t, err)

	want := bannerPrefix +
		"=======\nlib.mod\n=======\n\n" +
		".. _api_lib_mod_bar:\n\n" +
		"bar\n---\n\n" +
		"..  autofunction:: lib.mod.bar\n    :noindex:\n\n" +
		"Read Chinese Version: :ref:`cn_api_lib_mod_bar`\n\n" +
		".. _api_lib_mod_Foo:\n\n" +
		"Foo\n---\n\n" +
		"..  autoclass:: lib.mod.Foo\n    :members:\n    :noindex:\n\n" +
		"Read Chinese Version: :ref:`cn_api_lib_mod_Foo`\n\n"
	assert.Equal(t, want, buf.String())
}

func TestMissingSubmoduleAbortsAfterEarlierOnes(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--manifest", libManifest, "mod", "--submodules", "sub1", "sub2"}, &buf, io.Discard)
	require.Error(t, err)
	assert.True(t, registry.IsLookup(err))
	assert.EqualError(t, err, "cannot find lib.mod.sub2")

	want := bannerPrefix +
		"=======\nlib.mod\n=======\n\n" +
		"sub1\n====\n\n" +
		functionBlock("", "lib.mod.sub1", "helper") +
		classBlock("", "lib.mod.sub1", "Layer")
	assert.Equal(t, want, buf.String())
}

func TestMissingModuleWritesNothing(t *testing.T) {
	for _, args := range [][]string{
		{"--manifest", libManifest, "nope"},
		{"--root", fluidRoot, "nope"},
	} {
		var buf bytes.Buffer
		err := run(args, &buf, io.Discard)
		require.Error(t, err)
		assert.True(t, registry.IsLookup(err))
		assert.Zero(t, buf.Len())
	}
}

func TestNamespaceWithoutExportList(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--manifest", libManifest, ""}, &buf, io.Discard)
	require.Error(t, err)
	assert.EqualError(t, err, "lib has no export list")
	assert.Equal(t, bannerPrefix+"===\nlib\n===\n\n", buf.String())
}

func TestEmptySubmodulesFlag(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--manifest", libManifest, "mod", "--submodules"}, &buf, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, bannerPrefix+"=======\nlib.mod\n=======\n\n", buf.String())
}

func TestSubmoduleNamesAreTakenVerbatim(t *testing.T) {
	t.Run("comma is part of the name", func(t *testing.T) {
		var buf bytes.Buffer
		err := run([]string{"--manifest", libManifest, "mod", "--submodules", "sub1,sub1"}, &buf, io.Discard)
		require.Error(t, err)
		assert.EqualError(t, err, "cannot find lib.mod.sub1,sub1")
		assert.NotContains(t, buf.String(), "sub1\n====")
	})

	t.Run("quote is part of the name", func(t *testing.T) {
		var buf bytes.Buffer
		err := run([]string{"--manifest", libManifest, "mod", "--submodules", `"sub1`}, &buf, io.Discard)
		require.Error(t, err)
		assert.True(t, registry.IsLookup(err))
		assert.EqualError(t, err, `cannot find lib.mod."sub1`)
	})

	t.Run("repeated names get one section each", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, run([]string{"--manifest", libManifest, "mod", "--submodules", "sub1", "sub1"}, &buf, io.Discard))
		assert.Equal(t, 2, strings.Count(buf.String(), "sub1\n====\n\n"))
	})
}

func TestConstraintOnlySubmodule(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"--root", fluidRoot, "", "--submodules", "gpu"}, &buf, io.Discard))
	assert.Equal(t, bannerPrefix+"=====\nfluid\n=====\n\n"+"gpu\n===\n\n", buf.String())

	buf.Reset()
	require.NoError(t, run([]string{"--root", fluidRoot, "--tags", "fluidgpu", "", "--submodules", "gpu"}, &buf, io.Discard))
	assert.Contains(t, buf.String(), functionBlock("", "fluid.gpu", "Kernel"))
}

func TestSingleDashFlags(t *testing.T) {
	var dashed, doubled bytes.Buffer
	require.NoError(t, run([]string{"-manifest=" + libManifest, "mod", "-submodules", "sub1"}, &dashed, io.Discard))
	require.NoError(t, run([]string{"--manifest", libManifest, "mod", "--submodules", "sub1"}, &doubled, io.Discard))
	assert.Equal(t, doubled.String(), dashed.String())
}

func TestOutputIsIdempotent(t *testing.T) {
	render := func() string {
		var buf bytes.Buffer
		require.NoError(t, run([]string{"--root", fluidRoot, "", "--submodules", "layers", "optimizer"}, &buf, io.Discard))
		return buf.String()
	}
	assert.Equal(t, render(), render())
}

func TestOutputFlagWritesFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "api", "mod.rst")
	require.NoError(t, run([]string{"--manifest", libManifest, "-o", target, "mod"}, io.Discard, io.Discard))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "..  autoclass:: lib.mod.Foo")
}

func TestVerboseLogsSkippedMembers(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-v", "--manifest", libManifest, "mod", "--submodules", "sub1"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "skipping unresolvable export")
	assert.Contains(t, stderr.String(), "name=Missing")
}

func TestManifestCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"manifest", "--root", fluidRoot}, &buf, io.Discard))

	root, err := registry.ReadManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, "fluid", root.Name)
	layers, err := root.Child("layers")
	require.NoError(t, err)
	exports, ok := layers.Exports()
	require.True(t, ok)
	assert.Contains(t, exports, "CudnnLSTM")
}

func TestManifestRoundTripMatchesDiscovery(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "fluid.yaml")
	require.NoError(t, run([]string{"manifest", "--root", fluidRoot, "-o", manifest}, io.Discard, io.Discard))

	var fromTree, fromManifest bytes.Buffer
	require.NoError(t, run([]string{"--root", fluidRoot, "layers"}, &fromTree, io.Discard))
	require.NoError(t, run([]string{"--manifest", manifest, "layers"}, &fromManifest, io.Discard))
	assert.Equal(t, fromTree.String(), fromManifest.String())
}

func TestHelpFlag(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"--help"}, &buf, io.Discard))
	out := buf.String()
	assert.Contains(t, out, "go-apidoc [flags] MODULE [--submodules NAME...]")
	assert.Contains(t, out, "--submodules")
	assert.Contains(t, out, "completion  Generate shell completion scripts")
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"completion", "bash"}, &buf, io.Discard))
	assert.Contains(t, buf.String(), "__start_go-apidoc")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, run([]string{"gen-docs", tmp}, io.Discard, io.Discard))
	_, err := os.Stat(filepath.Join(tmp, "go-apidoc.md"))
	assert.NoError(t, err)
}

func TestExpandSubmodules(t *testing.T) {
	tests := map[string]struct {
		in   []string
		want []string
	}{
		"absent": {
			in:   []string{"mod"},
			want: []string{"mod"},
		},
		"no values": {
			in:   []string{"mod", "--submodules"},
			want: []string{"mod", "--submodules="},
		},
		"values up to next flag": {
			in:   []string{"mod", "--submodules", "a", "b", "-o", "x"},
			want: []string{"mod", "--submodules=a", "--submodules=b", "-o", "x"},
		},
		"after terminator": {
			in:   []string{"--", "--submodules", "a"},
			want: []string{"--", "--submodules", "a"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, expandSubmodules(tc.in))
		})
	}
}

func TestNormalizeLegacyArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--root=./x", "mod", "--submodules", "a", "-o", "out.rst"},
		normalizeLegacyArgs([]string{"-root=./x", "mod", "-submodules", "a", "-o", "out.rst"}))
	in := []string{"--root", ".", "mod"}
	assert.Equal(t, in, normalizeLegacyArgs(in))
}

func functionBlock(library, path, name string) string {
	anchor := "api_" + strings.ReplaceAll(path, ".", "_") + "_" + name
	return ".. _" + anchor + ":\n\n" +
		name + "\n" + strings.Repeat("-", len(name)) + "\n\n" +
		"..  autofunction:: " + qualify(library, path, name) + "\n    :noindex:\n\n" +
		"Read Chinese Version: :ref:`cn_" + anchor + "`\n\n"
}

func classBlock(library, path, name string) string {
	anchor := "api_" + strings.ReplaceAll(path, ".", "_") + "_" + name
	return ".. _" + anchor + ":\n\n" +
		name + "\n" + strings.Repeat("-", len(name)) + "\n\n" +
		"..  autoclass:: " + qualify(library, path, name) + "\n    :members:\n    :noindex:\n\n" +
		"Read Chinese Version: :ref:`cn_" + anchor + "`\n\n"
}

func qualify(library, path, name string) string {
	if library == "" {
		return path + "." + name
	}
	return library + "." + path + "." + name
}
