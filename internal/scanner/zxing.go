package scanner

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ZXingDecoder 基于 gozxing 的解码器，支持二维码和 Code128
// （仓库标签两种都在用）
type ZXingDecoder struct {
	readers []gozxing.Reader
}

func NewZXingDecoder() *ZXingDecoder {
	return &ZXingDecoder{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewCode128Reader(),
		},
	}
}

func (d *ZXingDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("build bitmap: %w", err)
	}
	for _, r := range d.readers {
		result, err := r.Decode(bmp, nil)
		if err == nil {
			return result.GetText(), nil
		}
	}
	// gozxing 的 NotFoundException 细节对调用方没有意义，统一折叠成取不到码
	return "", ErrNotFound
}
