package importer

import "strings"

// Group adalah satu roadmap hasil parsing beserta judul task-nya,
// urut sesuai urutan kemunculan di teks input.
type Group struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// Parse mengubah teks bebas multi-baris menjadi daftar Group.
//
// Aturan per baris (baris kosong dilewati), dicek berurutan:
//  1. mengandung '='  -> split pada '=' pertama; kiri = nama grup, kanan
//     dipecah dengan ',' menjadi task. Grup baru menjadi grup aktif.
//  2. mengandung ':'  -> sama seperti (1) tapi kanan dipecah dengan '|'.
//  3. diawali '-' / '*' -> marker dibuang, sisa teks ditambahkan ke grup
//     aktif. Tanpa grup aktif baris ini dibuang.
//  4. ada grup aktif  -> seluruh baris jadi task di grup aktif.
//  5. tanpa grup aktif -> baris jadi grup "General" tersendiri; grup ini
//     TIDAK menjadi grup aktif, jadi baris yatim berikutnya membuat grup
//     "General" baru lagi (tidak digabung).
//
// Baris '='/':' yang salah satu sisinya kosong tidak membuka grup dan
// tidak menjadi task; baris itu dikonsumsi tanpa efek.
func Parse(text string) []Group {
	groups := []Group{}
	current := -1 // index grup aktif di groups, -1 = belum ada

	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "="):
			if g := splitHeader(line, "=", ","); g != nil {
				groups = append(groups, *g)
				current = len(groups) - 1
			}

		case strings.Contains(line, ":"):
			if g := splitHeader(line, ":", "|"); g != nil {
				groups = append(groups, *g)
				current = len(groups) - 1
			}

		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*"):
			title := strings.TrimSpace(line[1:])
			if current >= 0 && title != "" {
				groups[current].Tasks = append(groups[current].Tasks, title)
			}

		case current >= 0:
			groups[current].Tasks = append(groups[current].Tasks, line)

		default:
			groups = append(groups, Group{Name: "General", Tasks: []string{line}})
		}
	}

	return groups
}

// splitHeader memecah baris header "nama <sep> task, task, ..." menjadi
// Group baru. Mengembalikan nil jika nama atau bagian task kosong.
func splitHeader(line, sep, delim string) *Group {
	parts := strings.SplitN(line, sep, 2)
	name := strings.TrimSpace(parts[0])
	rest := strings.TrimSpace(parts[1])
	if name == "" || rest == "" {
		return nil
	}

	tasks := []string{}
	for _, piece := range strings.Split(rest, delim) {
		if piece = strings.TrimSpace(piece); piece != "" {
			tasks = append(tasks, piece)
		}
	}
	return &Group{Name: name, Tasks: tasks}
}
