//go:build gocv
// +build gocv

package vision

import (
	"errors"

	"gocv.io/x/gocv"
)

// decodeSize декодирует картинку через OpenCV и возвращает её размер.
func decodeSize(data []byte) (int, int, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return 0, 0, err
	}
	defer mat.Close()

	if mat.Empty() {
		return 0, 0, errors.New("failed to decode image")
	}
	return mat.Cols(), mat.Rows(), nil
}
