package export

import (
	"fmt"

	"github.com/ringmast4r/camtiles/internal/geo"
	"github.com/ringmast4r/camtiles/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"
)

// CameraRecord is the flat analytics row for one camera feature.
type CameraRecord struct {
	Lat              float64 `parquet:"name=lat, type=DOUBLE"`
	Lon              float64 `parquet:"name=lon, type=DOUBLE"`
	CoordKey         string  `parquet:"name=coord_key, type=BYTE_ARRAY, convertedtype=UTF8"`
	State            string  `parquet:"name=state, type=BYTE_ARRAY, convertedtype=UTF8"`
	GridCell         string  `parquet:"name=grid_cell, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category         string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Manufacturer     string  `parquet:"name=manufacturer, type=BYTE_ARRAY, convertedtype=UTF8"`
	SurveillanceType string  `parquet:"name=surveillance_type, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// WriteParquet flattens the canonical dataset into a single Parquet file for
// analytics. State is only populated for features inside the US bounding box,
// mirroring the aggregation restriction. Returns the number of rows written;
// features without a point geometry are skipped.
func WriteParquet(path string, features []models.Feature) (int, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create parquet file %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(CameraRecord), 4)
	if err != nil {
		fw.Close()
		return 0, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	written := 0
	for _, feature := range features {
		lon, lat, ok := feature.LonLat()
		if !ok {
			continue
		}
		record := CameraRecord{
			Lat:              lat,
			Lon:              lon,
			CoordKey:         models.CoordinateKey(lat, lon),
			GridCell:         geo.GridCell(lat, lon),
			Category:         geo.CategoryOf(feature.Properties).String(),
			Manufacturer:     stringProp(feature.Properties, "manufacturer"),
			SurveillanceType: stringProp(feature.Properties, "surveillance:type"),
		}
		if geo.InUSBounds(lat, lon) {
			record.State = geo.StateOf(lat, lon)
		}
		if err := pw.Write(record); err != nil {
			pw.WriteStop()
			fw.Close()
			return written, fmt.Errorf("failed to write parquet row: %w", err)
		}
		written++
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return written, fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return written, fmt.Errorf("failed to close parquet file: %w", err)
	}
	return written, nil
}

func stringProp(properties map[string]interface{}, key string) string {
	if properties == nil {
		return ""
	}
	value, _ := properties[key].(string)
	return value
}
