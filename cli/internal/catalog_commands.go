package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/catalog"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/services"
)

func newBrandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "brands",
		Aliases: []string{"brand"},
		Short:   "Manage brands",
	}

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := getCliContext(cmd).API.Brands.List(cmd.Context(), list.params())
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "NAME", "SLUG", "ACTIVE"}, func(b entities.Brand) []string {
				return []string{b.ID, b.Name, b.Slug, yesNo(b.IsActive)}
			})
		},
	}
	list.register(listCmd, false)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := getCliContext(cmd).API.Brands.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printItem(cmd, b, [][2]string{
				{"ID", b.ID}, {"Name", b.Name}, {"Slug", b.Slug},
				{"Description", orDash(b.Description)}, {"Logo", orDash(b.Logo)},
				{"Active", yesNo(b.IsActive)}, {"Updated", formatTime(b.UpdatedAt)},
			})
		},
	}

	var in services.BrandInput
	var active bool
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			in.IsActive = boolFlag(cmd, "active", active)
			b, err := getCliContext(cmd).API.Brands.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Brand %q created (%s)\n", b.Name, b.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&in.Slug, "slug", "", "URL slug (derived from the name when empty)")
	createCmd.Flags().StringVar(&in.Description, "description", "", "Description")
	createCmd.Flags().StringVar(&in.Logo, "logo", "", "Logo URL (see `shopadmin media upload`)")
	createCmd.Flags().BoolVar(&active, "active", true, "Whether the brand is visible")

	cmd.AddCommand(listCmd, getCmd, createCmd, newDeleteCommand("brand", func(cmd *cobra.Command, id string) error {
		return getCliContext(cmd).API.Brands.Delete(cmd.Context(), id)
	}))
	return cmd
}

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage categories",
	}

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Show categories as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := getCliContext(cmd).API.Categories.Tree(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(out, tree.Flatten(catalog.FlattenOptions{}))
			}
			if tree.Len() == 0 {
				fmt.Fprintln(out, "No categories")
				return nil
			}
			return tree.Walk(func(n *catalog.Node) error {
				fmt.Fprintf(out, "%s%s  (%s)\n", strings.Repeat("  ", n.Depth), n.Category.Name, n.ID())
				return nil
			})
		},
	}

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := getCliContext(cmd).API.Categories.List(cmd.Context(), list.params())
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "NAME", "SLUG", "PARENT", "ORDER"}, func(c entities.Category) []string {
				parent := "-"
				if c.ParentID != nil {
					parent = *c.ParentID
				}
				return []string{c.ID, c.Name, c.Slug, parent, strconv.Itoa(c.SortOrder)}
			})
		},
	}
	list.register(listCmd, false)

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a category and its position in the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := getCliContext(cmd).API
			tree, err := api.Categories.Tree(cmd.Context())
			if err != nil {
				return err
			}
			node := tree.Find(args[0])
			if node == nil {
				return fmt.Errorf("category %q not found", args[0])
			}
			c := node.Category
			return printItem(cmd, c, [][2]string{
				{"ID", c.ID}, {"Name", c.Name}, {"Slug", c.Slug},
				{"Path", tree.Breadcrumb(c.ID)},
				{"Children", strconv.Itoa(len(node.Children))},
				{"Active", yesNo(c.IsActive)},
			})
		},
	}

	var (
		in     services.CategoryInput
		parent string
		active bool
	)
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			if parent != "" {
				in.ParentID = &parent
			}
			in.IsActive = boolFlag(cmd, "active", active)
			c, err := getCliContext(cmd).API.Categories.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %q created (%s)\n", c.Name, c.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&in.Slug, "slug", "", "URL slug (derived from the name when empty)")
	createCmd.Flags().StringVar(&in.Description, "description", "", "Description")
	createCmd.Flags().StringVar(&parent, "parent", "", "Parent category ID (top-level when empty)")
	createCmd.Flags().IntVar(&in.SortOrder, "order", 0, "Sort order among siblings")
	createCmd.Flags().BoolVar(&active, "active", true, "Whether the category is visible")

	var moveTo string
	moveCmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a category under another parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := getCliContext(cmd).API
			current, err := api.Categories.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := services.CategoryInput{
				Name:        current.Name,
				Slug:        current.Slug,
				Description: current.Description,
				Image:       current.Image,
				SortOrder:   current.SortOrder,
				IsActive:    &current.IsActive,
			}
			if moveTo != "" {
				// Reject moves into the category's own subtree before asking the server
				tree, err := api.Categories.Tree(cmd.Context())
				if err != nil {
					return err
				}
				for _, opt := range tree.Flatten(catalog.FlattenOptions{Exclude: current.ID}) {
					if opt.Value == moveTo {
						in.ParentID = &moveTo
						break
					}
				}
				if in.ParentID == nil {
					return fmt.Errorf("cannot move %q under %q", current.Name, moveTo)
				}
			}
			if _, err := api.Categories.Update(cmd.Context(), current.ID, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %q moved\n", current.Name)
			return nil
		},
	}
	moveCmd.Flags().StringVar(&moveTo, "parent", "", "New parent category ID (top-level when empty)")

	cmd.AddCommand(treeCmd, listCmd, getCmd, createCmd, moveCmd, newDeleteCommand("category", func(cmd *cobra.Command, id string) error {
		return getCliContext(cmd).API.Categories.Delete(cmd.Context(), id)
	}))
	return cmd
}

func newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
	}

	var (
		list   listFlags
		filter services.ProductFilter
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.ListParams = list.params()
			page, err := getCliContext(cmd).API.Products.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "NAME", "SKU", "PRICE", "STOCK", "STATUS"}, func(p entities.Product) []string {
				return []string{p.ID, p.Name, orDash(p.SKU), p.EffectivePrice().StringFixed(2), strconv.Itoa(p.Stock), orDash(p.Status)}
			})
		},
	}
	list.register(listCmd, true)
	listCmd.Flags().StringVar(&filter.BrandID, "brand", "", "Filter by brand ID")
	listCmd.Flags().StringVar(&filter.CategoryID, "category", "", "Filter by category ID")
	listCmd.Flags().StringVar(&filter.VendorID, "vendor", "", "Filter by vendor ID")

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := getCliContext(cmd).API.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sale := "-"
			if p.SalePrice != nil {
				sale = p.SalePrice.StringFixed(2)
			}
			return printItem(cmd, p, [][2]string{
				{"ID", p.ID}, {"Name", p.Name}, {"Slug", p.Slug}, {"SKU", orDash(p.SKU)},
				{"Price", p.Price.StringFixed(2)}, {"Sale price", sale},
				{"Stock", strconv.Itoa(p.Stock)}, {"Status", orDash(p.Status)},
				{"Brand", orDash(p.BrandID)}, {"Category", orDash(p.CategoryID)}, {"Vendor", orDash(p.VendorID)},
				{"Featured", yesNo(p.IsFeatured)}, {"Updated", formatTime(p.UpdatedAt)},
			})
		},
	}

	var (
		in        services.ProductInput
		price     string
		salePrice string
	)
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			var err error
			if in.Price, err = decimal.NewFromString(price); err != nil {
				return fmt.Errorf("invalid --price %q: %w", price, err)
			}
			if salePrice != "" {
				sp, err := decimal.NewFromString(salePrice)
				if err != nil {
					return fmt.Errorf("invalid --sale-price %q: %w", salePrice, err)
				}
				in.SalePrice = &sp
			}
			p, err := getCliContext(cmd).API.Products.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %q created (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&price, "price", "", "List price")
	createCmd.Flags().StringVar(&salePrice, "sale-price", "", "Sale price")
	createCmd.Flags().StringVar(&in.SKU, "sku", "", "Stock keeping unit")
	createCmd.Flags().StringVar(&in.Slug, "slug", "", "URL slug (derived from the name when empty)")
	createCmd.Flags().StringVar(&in.Description, "description", "", "Description")
	createCmd.Flags().IntVar(&in.Stock, "stock", 0, "Units in stock")
	createCmd.Flags().StringVar(&in.BrandID, "brand", "", "Brand ID")
	createCmd.Flags().StringVar(&in.CategoryID, "category", "", "Category ID")
	createCmd.Flags().StringSliceVar(&in.Images, "image", nil, "Image URL (repeatable)")
	createCmd.Flags().StringVar(&in.Status, "status", "draft", "Initial status (draft, active, archived)")
	createCmd.Flags().BoolVar(&in.IsFeatured, "featured", false, "Feature on the storefront")
	_ = createCmd.MarkFlagRequired("price")

	statusCmd := &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Change a product's status (draft, active, archived)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := getCliContext(cmd).API.Products.SetStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product %q is now %s\n", p.Name, p.Status)
			return nil
		},
	}

	cmd.AddCommand(listCmd, getCmd, createCmd, statusCmd, newDeleteCommand("product", func(cmd *cobra.Command, id string) error {
		return getCliContext(cmd).API.Products.Delete(cmd.Context(), id)
	}))
	return cmd
}

func newAttributesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attributes",
		Aliases: []string{"attribute"},
		Short:   "Manage product attributes",
	}

	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := getCliContext(cmd).API.Attributes.List(cmd.Context(), list.params())
			if err != nil {
				return err
			}
			return printList(cmd, page, []string{"ID", "NAME", "TYPE", "VALUES"}, func(a entities.Attribute) []string {
				return []string{a.ID, a.Name, orDash(a.Type), strings.Join(a.Values, ", ")}
			})
		},
	}
	list.register(listCmd, false)

	var in services.AttributeInput
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			a, err := getCliContext(cmd).API.Attributes.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attribute %q created with %d values (%s)\n", a.Name, len(a.Values), a.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&in.Type, "type", "select", "Attribute type (select, text, color)")
	createCmd.Flags().StringSliceVar(&in.Values, "value", nil, "Allowed value (repeatable or comma separated)")
	createCmd.Flags().StringVar(&in.Slug, "slug", "", "URL slug (derived from the name when empty)")

	cmd.AddCommand(listCmd, createCmd, newDeleteCommand("attribute", func(cmd *cobra.Command, id string) error {
		return getCliContext(cmd).API.Attributes.Delete(cmd.Context(), id)
	}))
	return cmd
}

// newDeleteCommand builds the "delete ID" subcommand shared by every resource
func newDeleteCommand(kind string, del func(cmd *cobra.Command, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(cmd, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s deleted\n", strings.ToUpper(kind[:1])+kind[1:], args[0])
			return nil
		},
	}
}

// boolFlag returns a pointer only when the user set the flag, so the server keeps its default otherwise
func boolFlag(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
