// Command shpcat dumps the records of an ESRI Shapefile dataset as WKT,
// GeoJSON geometries, or a GeoJSON feature stream.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoforge/shapefile"
)

var (
	format      string
	charsetName string
	suppressZ   bool
	suppressM   bool
	showInfo    bool
)

var rootCmd = &cobra.Command{
	Use:   "shpcat <basename|dataset.zip>",
	Short: "Dump an ESRI Shapefile dataset record by record",
	Long: `Dump an ESRI Shapefile dataset record by record.

The argument is either the dataset basename (shpcat path/to/countries reads
countries.shp, countries.shx, and countries.dbf) or a .zip file containing
the dataset.

Examples:
  shpcat --format wkt path/to/countries
  shpcat --format feature --suppress-m parcels.zip`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&format, "format", "wkt", "Output format: wkt, geojson, or feature")
	rootCmd.Flags().StringVar(&charsetName, "charset", "", "Attribute table charset (default ISO-8859-1, or the .cpg sidecar)")
	rootCmd.Flags().BoolVar(&suppressZ, "suppress-z", false, "Drop the Z channel from output")
	rootCmd.Flags().BoolVar(&suppressM, "suppress-m", false, "Drop the M channel from output")
	rootCmd.Flags().BoolVar(&showInfo, "info", false, "Print the dataset summary instead of records")
}

func run(cmd *cobra.Command, args []string) error {
	var outputFormat shapefile.Format
	switch format {
	case "wkt":
		outputFormat = shapefile.FormatWKT
	case "geojson":
		outputFormat = shapefile.FormatGeoJSONGeometry
	case "feature":
		outputFormat = shapefile.FormatGeoJSONFeature
	default:
		return fmt.Errorf("%s: unknown format", format)
	}

	options := &shapefile.CursorOptions{
		SHP: &shapefile.ReadSHPOptions{
			SuppressZ: suppressZ,
			SuppressM: suppressM,
		},
		DBF: &shapefile.ReadDBFOptions{
			Charset: charsetName,
		},
		DefaultFormat: outputFormat,
	}

	basename := args[0]
	var cursor *shapefile.Cursor
	var err error
	if strings.HasSuffix(strings.ToLower(basename), ".zip") {
		cursor, err = shapefile.OpenZipFile(basename, options)
	} else {
		cursor, err = shapefile.Open(basename, options)
	}
	if err != nil {
		return err
	}
	defer cursor.Close()

	if showInfo {
		return printInfo(cmd.OutOrStdout(), cursor)
	}

	for {
		output, err := cursor.TakeFormat(shapefile.FormatDefault)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
	}
}

func printInfo(w io.Writer, cursor *shapefile.Cursor) error {
	fmt.Fprintf(w, "shape type: %s\n", cursor.ShapeType())
	fmt.Fprintf(w, "records: %d\n", cursor.NumRecords())
	if bounds := cursor.Bounds(); bounds != nil {
		fmt.Fprintf(w, "bounds: %g %g, %g %g\n", bounds.MinX, bounds.MinY, bounds.MaxX, bounds.MaxY)
	}
	if projection := cursor.Projection(); projection != "" {
		fmt.Fprintf(w, "projection: %s\n", strings.TrimSpace(projection))
	}
	for _, fieldDescriptor := range cursor.FieldDescriptors() {
		fmt.Fprintf(w, "field: %s %c %d.%d\n", fieldDescriptor.Name, fieldDescriptor.Type, fieldDescriptor.Length, fieldDescriptor.DecimalCount)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
