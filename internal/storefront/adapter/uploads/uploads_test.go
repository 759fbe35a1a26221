package uploads

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"food-ordering/internal/storefront/app/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ core.IImageStore = (*LocalStore)(nil)
	_ core.IImageStore = (*S3Store)(nil)
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStore(dir, "/uploads", 1024)
	require.NoError(t, err)

	url, err := ls.Save(context.Background(), "1/abc.png", "image/png", 4, strings.NewReader("\x89PNG"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1/abc.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "1", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data))

	_, err = ls.Save(context.Background(), "1/abc.png", "image/png", 4, strings.NewReader("\x89PNG"))
	assert.Error(t, err, "existing files are never overwritten")
}

func TestLocalStoreRejects(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStore(dir, "/uploads/", 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ls.Save(ctx, "1/a.txt", "text/plain", 3, strings.NewReader("abc"))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = ls.Save(ctx, "../escape.png", "image/png", 3, strings.NewReader("abc"))
	assert.Error(t, err)

	_, err = ls.Save(ctx, "1/big.png", "image/png", 100, strings.NewReader(strings.Repeat("x", 100)))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	// the declared size lies, the copy is still bounded
	_, err = ls.Save(ctx, "1/liar.png", "image/png", 1, strings.NewReader(strings.Repeat("x", 100)))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, statErr := os.Stat(filepath.Join(dir, "1", "liar.png"))
	assert.True(t, os.IsNotExist(statErr))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
}

func (fs *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	fs.input = params
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, params.Body); err != nil {
		return nil, err
	}
	fs.body = buf.Bytes()
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreSave(t *testing.T) {
	client := &fakeS3{}
	ss := NewS3StoreWithClient(client, "menu-images", "https://cdn.example.com/", 1024)

	url, err := ss.Save(context.Background(), "1/abc.jpg", "image/jpeg", 3, strings.NewReader("jpg"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/uploads/1/abc.jpg", url)
	require.NotNil(t, client.input)
	assert.Equal(t, "menu-images", aws.ToString(client.input.Bucket))
	assert.Equal(t, "uploads/1/abc.jpg", aws.ToString(client.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "jpg", string(client.body))
}

func TestS3StoreRejectsNonImage(t *testing.T) {
	client := &fakeS3{}
	ss := NewS3StoreWithClient(client, "menu-images", "https://cdn.example.com", 1024)

	_, err := ss.Save(context.Background(), "1/a.pdf", "application/pdf", 3, strings.NewReader("pdf"))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, client.input)
}
