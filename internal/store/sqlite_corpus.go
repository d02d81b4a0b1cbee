package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

func (s *SQLiteStore) AddChunk(content, source string, vector []float32) error {
	vecBuf := new(bytes.Buffer)
	if err := binary.Write(vecBuf, binary.LittleEndian, vector); err != nil {
		return fmt.Errorf("failed to encode vector: %w", err)
	}

	query := `INSERT INTO chunks (content, source, vector) VALUES (?, ?, ?)`
	_, err := s.db.Exec(query, content, source, vecBuf.Bytes())
	return err
}

func (s *SQLiteStore) CountChunks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SearchChunks loads all stored chunks, scores them by cosine similarity to
// the query vector, and returns the top limit, most similar first. Linear
// scan is fine at this corpus size (a few hundred card-meaning chunks).
func (s *SQLiteStore) SearchChunks(queryVector []float32, limit int) ([]Chunk, error) {
	rows, err := s.db.Query(`SELECT content, source, vector FROM chunks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []Chunk
	for rows.Next() {
		var content, source string
		var vecBlob []byte

		if err := rows.Scan(&content, &source, &vecBlob); err != nil {
			continue
		}

		vector := make([]float32, len(vecBlob)/4)
		if err := binary.Read(bytes.NewReader(vecBlob), binary.LittleEndian, &vector); err != nil {
			continue
		}

		scored = append(scored, Chunk{
			Content:    content,
			Source:     source,
			Similarity: cosineSimilarity(queryVector, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable sort keeps insertion order for ties, so results are
	// deterministic for a fixed corpus.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, magA, magB float32
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (float32(math.Sqrt(float64(magA))) * float32(math.Sqrt(float64(magB))))
}
