package services

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader pushes an image to external hosting and returns its public
// URL. Nothing is persisted locally and no transformation happens here.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

const uploadFolder = "blog-app"

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a CLOUDINARY_URL-style
// connection string.
func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: uploadFolder,
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	return result.SecureURL, nil
}
