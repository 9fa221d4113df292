/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package atomic

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The license block must stay detached from the package clause, and every
// exported function carries a doc comment.
func TestPackageDocumentation(t *testing.T) {
	fset := token.NewFileSet()
	sources := func(fi fs.FileInfo) bool { return !strings.HasSuffix(fi.Name(), "_test.go") }
	pkgs, err := parser.ParseDir(fset, ".", sources, parser.ParseComments)
	require.NoError(t, err)
	pkg, ok := pkgs["atomic"]
	require.True(t, ok)

	var docs int
	for name, f := range pkg.Files {
		if f.Doc != nil {
			docs++
			assert.Truef(t, strings.HasPrefix(f.Doc.Text(), "Package atomic "), "%s: package comment %q", name, f.Doc.Text())
		}
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !fn.Name.IsExported() {
				continue
			}
			assert.NotNilf(t, fn.Doc, "%s: %s has no doc comment", name, fn.Name.Name)
		}
	}
	assert.Equal(t, 1, docs, "exactly one file documents the package")
}
