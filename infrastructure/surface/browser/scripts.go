// ABOUTME: Page scripts evaluated by Tab for attach, restore and measurement
// ABOUTME: Attach records each host element's display once so a re-attach cannot overwrite it

package browser

// Element ids owned by the reader inside the host page
const (
	viewportID = "pagereader-viewport"
	contentID  = "pagereader-content"
	hiddenAttr = "data-pagereader-hidden"
)

const attachJS = `(viewportID, contentID, hiddenAttr, html, dir, lang, title) => {
	const old = document.getElementById(viewportID);
	if (old) old.remove();
	for (const el of Array.from(document.body.children)) {
		if (!el.hasAttribute(hiddenAttr)) el.setAttribute(hiddenAttr, el.style.display || "");
		el.style.display = "none";
	}
	const viewport = document.createElement("div");
	viewport.id = viewportID;
	viewport.style.cssText = "position:fixed;inset:0;overflow:hidden;";
	const content = document.createElement("div");
	content.id = contentID;
	content.style.cssText = "will-change:transform;";
	if (dir) content.setAttribute("dir", dir);
	if (lang) content.setAttribute("lang", lang);
	if (title) content.setAttribute("aria-label", title);
	content.innerHTML = html;
	viewport.appendChild(content);
	document.body.appendChild(viewport);
}`

const restoreJS = `(viewportID, hiddenAttr) => {
	const viewport = document.getElementById(viewportID);
	if (viewport) viewport.remove();
	for (const el of Array.from(document.querySelectorAll("[" + hiddenAttr + "]"))) {
		el.style.display = el.getAttribute(hiddenAttr);
		el.removeAttribute(hiddenAttr);
	}
}`

const boxJS = `(id) => {
	const el = document.getElementById(id);
	if (!el) return {width: 0, height: 0};
	const r = el.getBoundingClientRect();
	return {width: r.width, height: r.height};
}`

const scrollSizeJS = `(id) => {
	const el = document.getElementById(id);
	if (!el) return {width: 0, height: 0};
	return {width: el.scrollWidth, height: el.scrollHeight};
}`

const dprJS = `() => window.devicePixelRatio`

const columnsJS = `(id, height, columnWidth, gap, width) => {
	const el = document.getElementById(id);
	if (!el) throw new Error("content block not attached");
	const px = (v) => v > 0 ? v + "px" : "";
	el.style.height = px(height);
	el.style.columnWidth = px(columnWidth);
	el.style.columnGap = columnWidth > 0 ? gap + "px" : "";
	el.style.columnFill = columnWidth > 0 ? "auto" : "";
	el.style.width = width > 0 ? px(width) : (columnWidth > 0 ? "max-content" : "");
}`

const translateJS = `(id, x) => {
	const el = document.getElementById(id);
	if (!el) throw new Error("content block not attached");
	el.style.transform = x === 0 ? "" : "translateX(" + x + "px)";
}`

const frameJS = `() => new Promise((resolve) => requestAnimationFrame(() => resolve()))`

const outerHTMLJS = `() => document.documentElement.outerHTML`
