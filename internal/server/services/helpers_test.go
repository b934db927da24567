package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filehost/internal/dbx"
	"github.com/dmitrijs2005/filehost/internal/logging"
	"github.com/dmitrijs2005/filehost/internal/server/auth"
	"github.com/dmitrijs2005/filehost/internal/server/config"
	"github.com/dmitrijs2005/filehost/internal/server/models"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/files"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/users"
	"github.com/dmitrijs2005/filehost/internal/server/storage"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db    *sql.DB
	rm    repomanager.RepositoryManager
	disk  *storage.Disk
	cfg   *config.Config
	users *UserService
	files *FileService
}

// newTestEnv builds both services over a migrated SQLite database and an
// upload directory inside t.TempDir().
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, dialect, err := dbx.Open(ctx, "sqlite:"+filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	disk, err := storage.NewDisk(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"

	us := NewUserService(db, rm, cfg)
	us.hasher = auth.NewBcryptHasher(bcrypt.MinCost)

	return &testEnv{
		db:    db,
		rm:    rm,
		disk:  disk,
		cfg:   cfg,
		users: us,
		files: NewFileService(db, rm, disk, cfg, logging.Nop{}),
	}
}

func (e *testEnv) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, name+"@example.com", "pw-"+name)
	require.NoError(t, err)
	return u
}

func (e *testEnv) countFiles(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&n))
	return n
}

func (e *testEnv) diskNames(t *testing.T) []string {
	t.Helper()
	entries, err := e.disk.List()
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, en := range entries {
		names = append(names, en.Name)
	}
	return names
}

type formPart struct {
	field       string
	filename    string
	contentType string
	body        []byte
}

func filePart(filename, contentType, body string) formPart {
	return formPart{field: "file", filename: filename, contentType: contentType, body: []byte(body)}
}

func multipartBody(t *testing.T, parts ...formPart) *multipart.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		disp := fmt.Sprintf(`form-data; name=%q`, p.field)
		if p.filename != "" {
			disp += fmt.Sprintf(`; filename=%q`, p.filename)
		}
		h.Set("Content-Disposition", disp)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return multipart.NewReader(&buf, w.Boundary())
}

// streamedUpload returns a multipart reader whose single file part carries
// size bytes generated on the fly.
func streamedUpload(t *testing.T, filename string, size int64) *multipart.Reader {
	t.Helper()
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		chunk := bytes.Repeat([]byte{'x'}, 64<<10)
		for left := size; left > 0; {
			n := int64(len(chunk))
			if left < n {
				n = left
			}
			if _, err := part.Write(chunk[:n]); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
			left -= n
		}
		_ = pw.CloseWithError(w.Close())
	}()
	t.Cleanup(func() { _ = pr.Close() })

	return multipart.NewReader(pr, w.Boundary())
}

// stepClock returns strictly increasing times, one second apart.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

// -------- fakes --------

type fakeUsersRepo struct {
	users.Repository
	existsErr error
	getErr    error
}

func (f *fakeUsersRepo) ExistsByEmailOrUsername(context.Context, string, string) (bool, error) {
	return false, f.existsErr
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, f.getErr
}

func (f *fakeUsersRepo) GetByID(context.Context, int64) (*models.User, error) {
	return nil, f.getErr
}

type fakeFilesRepo struct {
	files.Repository
	createErr error
	listErr   error
	getErr    error
}

func (f *fakeFilesRepo) Create(context.Context, *models.File) (*models.File, error) {
	return nil, f.createErr
}

func (f *fakeFilesRepo) ListByOwner(context.Context, int64) ([]*models.File, error) {
	return nil, f.listErr
}

func (f *fakeFilesRepo) GetByIDAndOwner(context.Context, int64, int64) (*models.File, error) {
	return nil, f.getErr
}

func (f *fakeFilesRepo) ListStoredNames(context.Context) ([]*models.File, error) {
	return nil, f.listErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository         { return m.f }
