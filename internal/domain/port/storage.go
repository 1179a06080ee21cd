package port

import "context"

// FrameStorage mirrors written frames into remote object storage.
type FrameStorage interface {
	UploadFrame(ctx context.Context, objectKey string, localPath string) error
}
