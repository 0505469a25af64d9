//go:build js && wasm

package pixels

import (
	"image"
	"syscall/js"
)

// FromImageData copies the content of a canvas ImageData object into a new image.
func FromImageData(imageData js.Value) (*image.NRGBA, error) {
	width, height := imageData.Get("width").Int(), imageData.Get("height").Int()
	data := make([]byte, width*height*4)

	// Convert the rgba value of type Uint8ClampedArray to Uint8Array in order to
	// be able to transfer it from Javascript to Go via the js.CopyBytesToGo function.
	uint8Arr := js.Global().Get("Uint8Array").New(imageData.Get("data"))
	js.CopyBytesToGo(data, uint8Arr)

	return PixToImage(data, width, height)
}

// ToImageData converts the image into a canvas ImageData object.
func ToImageData(img *image.NRGBA) js.Value {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	uint8Arr := js.Global().Get("Uint8Array").New(width * height * 4)
	js.CopyBytesToJS(uint8Arr, ImgToPix(img))

	uint8Clamped := js.Global().Get("Uint8ClampedArray").New(uint8Arr)
	return js.Global().Get("ImageData").New(uint8Clamped, width, height)
}

// ToUint8Array copies a byte slice into a new Javascript Uint8Array.
func ToUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}
