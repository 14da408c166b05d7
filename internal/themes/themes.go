package themes

import "math/rand"

// DefaultColor dipakai saat kategori dibuat tanpa warna.
const DefaultColor = "#667eea"

// Backgrounds adalah gradien tema untuk halaman (dipilih acak per response).
var Backgrounds = []string{
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
	"linear-gradient(135deg, #43e97b 0%, #38f9d7 100%)",
	"linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
}

// Palette adalah warna kategori untuk bulk import.
var Palette = []string{
	"#667eea", "#764ba2", "#f093fb", "#f5576c",
	"#4facfe", "#00f2fe", "#43e97b", "#38f9d7",
}

func RandomBackground() string {
	return Backgrounds[rand.Intn(len(Backgrounds))]
}

func RandomColor() string {
	return Palette[rand.Intn(len(Palette))]
}
