package cli

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/model"
)

func addProduct(t *testing.T, db string, args ...string) model.Product {
	t.Helper()
	var p model.Product
	executeJSON(t, db, &p, append([]string{"product", "add"}, args...)...)
	return p
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "lamp.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestProductAdd(t *testing.T) {
	db := newDBPath(t)

	p := addProduct(t, db, "--name", "Lamp", "--price", "500", "--quantity", "10", "--description", "brass")
	_, err := uuid.Parse(p.ID)
	assert.NoError(t, err, "ids are UUIDs")
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, 500.0, p.Price)
	assert.EqualValues(t, 10, p.Quantity)
	assert.Equal(t, "brass", p.Description)
	assert.Positive(t, p.CreatedAt)

	var listed []model.Product
	executeJSON(t, db, &listed, "product", "list")
	require.Len(t, listed, 1)
	assert.Equal(t, p, listed[0])
}

func TestProductAddTextNotifies(t *testing.T) {
	run := execute(t, newDBPath(t), "product", "add", "--name", "Lamp", "--price", "500")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "Lamp\n  id:")
	assert.Contains(t, run.stdout, "price:    500.00")
	assert.Equal(t, "✓ Success\n", run.stderr)
}

func TestProductAddRequiresName(t *testing.T) {
	run := execute(t, newDBPath(t), "product", "add", "--price", "1")
	require.Error(t, run.err)
	assert.Contains(t, run.err.Error(), `required flag(s) "name" not set`)
}

func TestProductAddRejectsInvalidInput(t *testing.T) {
	db := newDBPath(t)

	cliErr, err := executeJSONError(t, db, "product", "add", "--name", "Lamp", "--price", "-5")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeInvalidInput, cliErr.Code)
	assert.Contains(t, cliErr.Message, "price")

	var listed []model.Product
	executeJSON(t, db, &listed, "product", "list")
	assert.Empty(t, listed, "rejected input never reaches the store")
}

func TestProductAddImage(t *testing.T) {
	db := newDBPath(t)

	p := addProduct(t, db, "--name", "Lamp", "--image", writePNG(t))
	assert.True(t, strings.HasPrefix(p.ImageURL, "data:image/png;base64,"), p.ImageURL)
}

func TestProductAddImageErrors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("just text"), 0644))
	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, bytes.Repeat([]byte{0}, 2048), 0644))

	t.Setenv("STOCKROOM_IMAGES_MAXKB", "1")

	tests := []struct {
		name     string
		path     string
		exitCode int
		code     string
		message  string
	}{
		{"not an image", notImage, ExitFailure, ErrCodeInvalidInput, "not an image"},
		{"too large", big, ExitFailure, ErrCodeInvalidInput, "exceeds 1 KB"},
		{"missing file", filepath.Join(dir, "absent.png"), ExitCommandError, ErrCodeFile, "load image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cliErr, err := executeJSONError(t, newDBPath(t), "product", "add", "--name", "Lamp", "--image", tt.path)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Equal(t, tt.code, cliErr.Code)
			assert.Contains(t, cliErr.Message, tt.message)
		})
	}
}

func TestProductEditChangesOnlyGivenFlags(t *testing.T) {
	db := newDBPath(t)
	p := addProduct(t, db, "--name", "Lamp", "--price", "500", "--quantity", "10", "--image", writePNG(t))

	var edited model.Product
	executeJSON(t, db, &edited, "product", "edit", p.ID, "--price", "450")
	assert.Equal(t, 450.0, edited.Price)
	assert.Equal(t, "Lamp", edited.Name)
	assert.EqualValues(t, 10, edited.Quantity)
	assert.Equal(t, p.ImageURL, edited.ImageURL)
	assert.Equal(t, p.CreatedAt, edited.CreatedAt)

	executeJSON(t, db, &edited, "product", "edit", p.ID, "--clear-image")
	assert.Empty(t, edited.ImageURL)

	var shown model.Product
	executeJSON(t, db, &shown, "product", "show", p.ID)
	assert.Equal(t, edited, shown)
}

func TestProductEditErrors(t *testing.T) {
	db := newDBPath(t)
	p := addProduct(t, db, "--name", "Lamp")

	cliErr, _ := executeJSONError(t, db, "product", "edit", "missing", "--price", "1")
	assert.Equal(t, ErrCodeNotFound, cliErr.Code)

	cliErr, _ = executeJSONError(t, db, "product", "edit", p.ID, "--name", " ")
	assert.Equal(t, ErrCodeInvalidInput, cliErr.Code)

	var shown model.Product
	executeJSON(t, db, &shown, "product", "show", p.ID)
	assert.Equal(t, "Lamp", shown.Name)
}

func TestProductSetQuantity(t *testing.T) {
	db := newDBPath(t)
	p := addProduct(t, db, "--name", "Lamp", "--quantity", "10")

	var updated model.Product
	executeJSON(t, db, &updated, "product", "set-quantity", p.ID, "7")
	assert.EqualValues(t, 7, updated.Quantity)

	cliErr, _ := executeJSONError(t, db, "product", "set-quantity", "--", p.ID, "-1")
	assert.Equal(t, ErrCodeInvalidInput, cliErr.Code)

	run := execute(t, db, "product", "set-quantity", p.ID, "many")
	require.Error(t, run.err)
	assert.Equal(t, ExitCommandError, GetExitCode(run.err))

	cliErr, _ = executeJSONError(t, db, "product", "set-quantity", "missing", "3")
	assert.Equal(t, ErrCodeNotFound, cliErr.Code)
}

func TestProductDelete(t *testing.T) {
	db := newDBPath(t)
	p := addProduct(t, db, "--name", "Lamp")

	var res actionResult
	executeJSON(t, db, &res, "product", "delete", p.ID)
	assert.Equal(t, p.ID, res.ID)

	run := execute(t, db, "--format", "json", "product", "list")
	require.NoError(t, run.err)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, run.stdout)

	// Deleting again is a quiet no-op.
	executeJSON(t, db, nil, "product", "delete", p.ID)
}

func TestProductListSearchAndSort(t *testing.T) {
	db := newDBPath(t)
	lamp := addProduct(t, db, "--name", "Desk lamp", "--price", "500")
	time.Sleep(5 * time.Millisecond)
	vase := addProduct(t, db, "--name", "Vase", "--price", "1200")
	time.Sleep(5 * time.Millisecond)
	floor := addProduct(t, db, "--name", "Floor LAMP", "--price", "800")

	var listed []model.Product
	executeJSON(t, db, &listed, "product", "list")
	assert.Equal(t, []string{floor.ID, vase.ID, lamp.ID}, productIDs(listed), "newest first by default")

	executeJSON(t, db, &listed, "product", "list", "--sort", "oldest", "--search", "lamp")
	assert.Equal(t, []string{lamp.ID, floor.ID}, productIDs(listed))

	executeJSON(t, db, &listed, "product", "list", "-s", "1200")
	assert.Equal(t, []string{vase.ID}, productIDs(listed))

	run := execute(t, db, "product", "list", "--sort", "cheapest")
	require.Error(t, run.err)
	assert.Equal(t, ExitCommandError, GetExitCode(run.err))
}

func TestProductListFollowsViewMode(t *testing.T) {
	db := newDBPath(t)
	addProduct(t, db, "--name", "Lamp", "--price", "500")

	run := execute(t, db, "product", "list")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "NAME")
	assert.Contains(t, run.stdout, "500.00")

	executeJSON(t, db, nil, "settings", "view-mode", "products", "grid")

	run = execute(t, db, "product", "list")
	require.NoError(t, run.err)
	assert.NotContains(t, run.stdout, "NAME")
	assert.Contains(t, run.stdout, "Lamp\n  id:")
}

func TestProductListEmptyText(t *testing.T) {
	run := execute(t, newDBPath(t), "product", "list")
	require.NoError(t, run.err)
	assert.Equal(t, "(none)\n", run.stdout)
}

func productIDs(products []model.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
