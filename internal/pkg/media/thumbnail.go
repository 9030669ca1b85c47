package media

import (
	"bytes"

	"github.com/disintegration/imaging"
)

const thumbnailWidth = 480

// Thumbnail 为图片生成等比缩略图，返回 JPEG 字节与缩略尺寸
func Thumbnail(data []byte) ([]byte, int, int, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, 0, 0, err
	}

	bounds := thumb.Bounds()
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}
