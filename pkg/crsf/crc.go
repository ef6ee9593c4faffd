package crsf

const crc_poly = 0xd5

var crc_table [256]byte

func init() {
	for j := range crc_table {
		crc_table[j] = crc8_dvb_s2_bitwise(0, byte(j))
	}
}

func crc8_dvb_s2_bitwise(crc byte, a byte) byte {
	crc ^= a
	for i := 0; i < 8; i++ {
		if (crc & 0x80) != 0 {
			crc = (crc << 1) ^ crc_poly
		} else {
			crc = crc << 1
		}
	}
	return crc
}

// Crc8DvbS2 folds one byte into a running CRC-8/DVB-S2.
func Crc8DvbS2(crc byte, a byte) byte {
	return crc_table[crc^a]
}

// Crc8 returns the CRC-8/DVB-S2 (poly 0xD5, init 0) of buf.
func Crc8(buf []byte) byte {
	crc := byte(0)
	for _, b := range buf {
		crc = crc_table[crc^b]
	}
	return crc
}
