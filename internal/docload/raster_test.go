package docload_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismoky07/Octroi-Credit/internal/docload"
)

// stubRunner emulates pdftoppm: the last argument is the output prefix, and
// it drops pagesPerPDF numbered PNG files next to it.
type stubRunner struct {
	pagesPerPDF int
	failFor     string
	calls       [][]string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))

	pdfPath := args[len(args)-2]
	prefix := args[len(args)-1]
	if s.failFor != "" && filepath.Base(pdfPath) == s.failFor {
		return nil, []byte("Syntax Error: couldn't read xref table"), errors.New("exit status 1")
	}
	for page := 1; page <= s.pagesPerPDF; page++ {
		out := fmt.Sprintf("%s-%d.png", prefix, page)
		if err := os.WriteFile(out, []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestRasterizeAll(t *testing.T) {
	dir := t.TempDir()
	cin := writePDF(t, dir, "cin.pdf")
	releve := writePDF(t, dir, "releve.pdf")
	outDir := filepath.Join(dir, "images_temp")

	runner := &stubRunner{pagesPerPDF: 2}
	raster := docload.NewRasterizer(docload.RasterConfig{DPI: 150}, nil).WithRunner(runner)

	images, errs := raster.RasterizeAll(context.Background(), []string{cin, releve}, outDir)

	assert.Empty(t, errs)
	require.Len(t, images, 4)
	assert.Equal(t, filepath.Join(outDir, "cin_page_01.png"), images[0])
	assert.Equal(t, filepath.Join(outDir, "cin_page_02.png"), images[1])
	assert.Equal(t, filepath.Join(outDir, "releve_page_01.png"), images[2])
	assert.Equal(t, filepath.Join(outDir, "releve_page_02.png"), images[3])
	for _, img := range images {
		_, err := os.Stat(img)
		assert.NoError(t, err)
	}

	// The DPI setting reaches the command line.
	require.NotEmpty(t, runner.calls)
	assert.Contains(t, runner.calls[0], "-r")
	assert.Contains(t, runner.calls[0], "150")
	assert.Contains(t, runner.calls[0], "-png")
}

func TestRasterizeAllPartialFailure(t *testing.T) {
	dir := t.TempDir()
	ok := writePDF(t, dir, "cin.pdf")
	bad := writePDF(t, dir, "casse.pdf")
	outDir := filepath.Join(dir, "images_temp")

	runner := &stubRunner{pagesPerPDF: 1, failFor: "casse.pdf"}
	raster := docload.NewRasterizer(docload.RasterConfig{}, nil).WithRunner(runner)

	images, errs := raster.RasterizeAll(context.Background(), []string{ok, bad}, outDir)

	require.Len(t, images, 1)
	assert.Equal(t, filepath.Join(outDir, "cin_page_01.png"), images[0])
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "casse.pdf")
}

func TestRasterizeAllMissingPDF(t *testing.T) {
	dir := t.TempDir()
	runner := &stubRunner{pagesPerPDF: 1}
	raster := docload.NewRasterizer(docload.RasterConfig{}, nil).WithRunner(runner)

	images, errs := raster.RasterizeAll(context.Background(),
		[]string{filepath.Join(dir, "fantome.pdf")}, filepath.Join(dir, "images_temp"))

	assert.Empty(t, images)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "fantome.pdf")
	assert.Empty(t, runner.calls, "no command for a missing file")
}

func TestRasterizeAllEmptyInput(t *testing.T) {
	raster := docload.NewRasterizer(docload.RasterConfig{}, nil).WithRunner(&stubRunner{})
	images, errs := raster.RasterizeAll(context.Background(), nil, t.TempDir())
	assert.Nil(t, images)
	assert.Nil(t, errs)
}
