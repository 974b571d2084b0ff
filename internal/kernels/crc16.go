package kernels

const (
	crc16Poly = 0x8408
	crc16Init = 0xFFFF
)

// CRC16 computes the reflected CRC-16 of data, processing each byte LSB first.
// The final register is complemented and its two bytes are swapped.
func CRC16(data []byte) uint16 {
	crc := uint16(crc16Init)
	for _, b := range data {
		cur := uint16(b)
		for bit := 0; bit < 8; bit++ {
			if (crc^cur)&0x0001 != 0 {
				crc = (crc >> 1) ^ crc16Poly
			} else {
				crc >>= 1
			}
			cur >>= 1
		}
	}
	crc = ^crc
	return crc<<8 | crc>>8
}
