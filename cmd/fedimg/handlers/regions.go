package handlers

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/yahzaa/fedimg/internal/catalog"
)

// Regions prints the region catalog an upload would publish to.
//
// The first utility entry is the origin region: the image is imported and
// boot-tested there, then copied to the remaining regions.
func Regions(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	cat := catalog.Parse(cfg.AWS.Catalog)
	return renderCatalog(os.Stdout, cat)
}

// renderCatalog writes the catalog as an aligned table.
func renderCatalog(w io.Writer, cat catalog.Catalog) error {
	profiles := cat.All()
	if len(profiles) == 0 {
		return fmt.Errorf("catalog lists no regions")
	}

	utility := cat.Utility()
	origin := ""
	if len(utility) > 0 {
		origin = utility[0].Region
	}

	tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tARCH\tBASE AMI\tKERNEL\tROLE")
	for _, p := range profiles {
		role := "copy target"
		if p.Region == origin && p.Arch == utility[0].Arch {
			role = "origin"
		}
		aki := p.AKI
		if aki == "" {
			aki = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Region, p.Arch, p.AMI, aki, role)
	}
	return tw.Flush()
}
