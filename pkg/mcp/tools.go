package mcp

import "github.com/mark3labs/mcp-go/mcp"

func documentFileTool() mcp.Tool {
	return mcp.NewTool("document_file",
		mcp.WithDescription("Document every component in a source file: props with types, requiredness and descriptions, following imported and spread prop types across files"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, absolute or relative to the workspace root"),
		),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Get one component's documentation. With path, the file is documented live; without, the component is looked up in the catalog"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component display name, or 'file#Name' to pick one of several catalog entries"),
		),
		mcp.WithString("path",
			mcp.Description("Optional file declaring the component"),
		),
	)
}

func resolveValueTool() mcp.Tool {
	return mcp.NewTool("resolve_value",
		mcp.WithDescription("Resolve the value of an identifier visible in a file, following imports and aliases (e.g. a list of allowed icon names)"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File the identifier is used in"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Identifier to resolve"),
		),
	)
}

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List catalog categories (component directories) with their components"),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List catalog components, optionally filtered by category and keyword"),
		mcp.WithString("category",
			mcp.Description("Category name"),
		),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive match on name and description"),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search catalog components by name, description, prop name or composed type"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
	)
}

// toolSet returns every tool the server registers, in registration order.
func (s *Server) toolSet() []toolEntry {
	return []toolEntry{
		{documentFileTool(), s.handleDocumentFile},
		{getComponentTool(), s.handleGetComponent},
		{resolveValueTool(), s.handleResolveValue},
		{listCategoriesTool(), s.handleListCategories},
		{listComponentsTool(), s.handleListComponents},
		{searchComponentsTool(), s.handleSearchComponents},
	}
}
