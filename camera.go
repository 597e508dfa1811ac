package flickr

import (
	"context"

	"github.com/photoflow/go-flickr/auth"
	"github.com/photoflow/go-flickr/transport"
)

var (
	mCameraBrands = bind("Client.CameraBrands", "flickr.cameras.getBrands")
	mCameraModels = bind("CameraBrand.GetModels", "flickr.cameras.getBrandModels")
)

// CameraBrand is a camera manufacturer known to the service.
type CameraBrand struct {
	Object `mapstructure:",squash"`

	Name string `mapstructure:"name"`
}

// CameraBrands returns the known camera manufacturers.
func (c *Client) CameraBrands(ctx context.Context, opts ...CallOption) ([]*CameraBrand, error) {
	return callAuth(ctx, c, nil, mCameraBrands, nil,
		func(r transport.Payload, tok *auth.Handler) ([]*CameraBrand, error) {
			entries, err := digList(r, "brands", "brand")
			if err != nil {
				return nil, err
			}
			out := make([]*CameraBrand, 0, len(entries))
			for _, e := range entries {
				b := &CameraBrand{}
				b.Object.init(c, "CameraBrand", "brand", tok, asMap(e), b)
				out = append(out, b)
			}
			return out, nil
		}, opts...)
}

// Camera is one camera model of a brand. Sensor and screen details stay in
// the field mapping under "details".
type Camera struct {
	Object `mapstructure:",squash"`

	Name string `mapstructure:"name"`
}

// GetModels returns the brand's camera models.
func (b *CameraBrand) GetModels(ctx context.Context, opts ...CallOption) ([]*Camera, error) {
	return call(ctx, b.client, b.objectRef(), mCameraModels, nil,
		func(r transport.Payload) ([]*Camera, error) {
			entries, err := digList(r, "cameras", "camera")
			if err != nil {
				return nil, err
			}
			out := make([]*Camera, 0, len(entries))
			for _, e := range entries {
				cam := &Camera{}
				cam.Object.init(b.client, "Camera", "camera", nil, asMap(e), cam)
				out = append(out, cam)
			}
			return out, nil
		}, opts...)
}
