package rest

import (
	"context"
	"os"

	"github.com/dmitrijs2005/filehost/internal/logging"
	"github.com/dmitrijs2005/filehost/internal/server/models"
	"github.com/dmitrijs2005/filehost/internal/server/services"
)

type fakeUsers struct {
	user       *models.User
	resolveErr error
	loginErr   error
	regErr     error
}

func (f *fakeUsers) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: 1, Username: username, Email: email, PasswordHash: "secret-hash"}, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return "tok", f.user, nil
}

func (f *fakeUsers) Resolve(ctx context.Context, token string) (*models.User, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.user, nil
}

type fakeFiles struct {
	err   error
	list  []*models.File
	gotID int64
}

func (f *fakeFiles) Upload(ctx context.Context, ownerID int64, parts services.PartReader) (*models.File, error) {
	return nil, f.err
}

func (f *fakeFiles) List(ctx context.Context, ownerID int64) ([]*models.File, error) {
	return f.list, f.err
}

func (f *fakeFiles) Open(ctx context.Context, fileID, ownerID int64) (*models.File, *os.File, error) {
	f.gotID = fileID
	return nil, nil, f.err
}

func (f *fakeFiles) Delete(ctx context.Context, fileID, ownerID int64) error {
	f.gotID = fileID
	return f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newFakeServer(us *fakeUsers, fs *fakeFiles) *RESTServer {
	if us.user == nil {
		us.user = &models.User{ID: 7, Username: "alice", Email: "a@x.io"}
	}
	return NewRESTServer("127.0.0.1:0", logging.Nop{}, us, fs, fakePinger{})
}
