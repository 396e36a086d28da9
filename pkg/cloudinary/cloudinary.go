package cloudinary

import (
	"context"
	"errors"
	"io"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Client uploads shipment document files (PDFs, scans) to Cloudinary and
// returns the delivery URL stored on the Document row.
type Client interface {
	UploadDocument(ctx context.Context, file io.Reader, folder, publicID string) (url string, err error)
	Delete(ctx context.Context, publicID string) error
}

type client struct {
	c *cld.Cloudinary
}

func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials not configured")
	}
	c, err := cld.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &client{c: c}, nil
}

func (cl *client) UploadDocument(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	// "raw" keeps PDFs and office files byte-identical; Cloudinary would
	// otherwise try to treat them as images.
	res, err := cl.c.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

func (cl *client) Delete(ctx context.Context, publicID string) error {
	_, err := cl.c.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "raw",
	})
	return err
}
