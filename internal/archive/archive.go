// Package archive stores replayed game summaries as parquet files.
package archive

import (
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/game"
)

// GameSummary is one row of the archive. Error is set, and the game fields
// describe the position reached, when a record failed to replay.
type GameSummary struct {
	Source   string `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8"`
	Index    int32  `parquet:"name=index, type=INT32"`
	White    string `parquet:"name=white, type=BYTE_ARRAY, convertedtype=UTF8"`
	Black    string `parquet:"name=black, type=BYTE_ARRAY, convertedtype=UTF8"`
	Result   string `parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	Status   string `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	Plies    int32  `parquet:"name=plies, type=INT32"`
	Captures int32  `parquet:"name=captures, type=INT32"`
	Checks   int32  `parquet:"name=checks, type=INT32"`
	Boards   int32  `parquet:"name=board_moves, type=INT32"`
	Moves    string `parquet:"name=moves, type=BYTE_ARRAY, convertedtype=UTF8"`
	FinalFEN string `parquet:"name=final_fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	Error    string `parquet:"name=error, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// Summarize describes the game held by e.
func Summarize(source string, index int, e *game.Engine) GameSummary {
	s := GameSummary{
		Source:   source,
		Index:    int32(index),
		Result:   e.Status().Result(),
		Status:   e.Status().String(),
		FinalFEN: e.FEN(),
	}
	s.White, _ = e.Tags().Get("White")
	s.Black, _ = e.Tags().Get("Black")
	moves := e.Moves()
	notation := make([]string, 0, len(moves))
	for _, m := range moves {
		notation = append(notation, m.Notation())
		f := m.Flags()
		if f.Has(game.FlagCapture) {
			s.Captures++
		}
		if f.Has(game.FlagCheck) || f.Has(game.FlagCheckmate) {
			s.Checks++
		}
		if m.IsAttackBoardMove() {
			s.Boards++
		}
	}
	s.Plies = int32(len(moves))
	s.Moves = strings.Join(notation, " ")
	return s
}

// Write drains records into a snappy-compressed parquet file at path.
func Write(path string, records <-chan GameSummary, parallel int64) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(GameSummary), parallel)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for record := range records {
		if err := parquetWriter.Write(record); err != nil {
			return err
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

// Read loads every row of the parquet file at path.
func Read(path string, parallel int64) ([]GameSummary, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		if resolved, err := filepath.Abs(path); err == nil {
			absPath = resolved
		}
	}
	fileReader, err := local.NewLocalFileReader(absPath)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(GameSummary), parallel)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	records := make([]GameSummary, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		if remain := num - offset; remain < batchSize {
			batchSize = remain
		}
		batch := make([]GameSummary, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}
