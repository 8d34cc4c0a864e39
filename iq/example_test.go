package iq_test

import (
	"fmt"

	"github.com/cwbudde/dsptools/iq"
)

func ExampleDecode() {
	buf := make([]byte, iq.FrameBytes)
	copy(buf, []byte{0x03, 0x00, 0x04, 0x00}) // re=3, im=4

	s, err := iq.Decode(buf)
	if err != nil {
		panic(err)
	}
	fmt.Printf("points=%d re=%.0f im=%.0f mag=%.0f f1=%.1f Hz\n",
		s.Len(), s.Re[0], s.Im[0], s.Mag[0], s.Freq[1])

	// Output:
	// points=512 re=3 im=4 mag=5 f1=195312.5 Hz
}
